package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"pdfshelf/internal/model"
	"pdfshelf/internal/pdf"
	"pdfshelf/internal/query"
	"pdfshelf/internal/repository"
	"pdfshelf/internal/storage"
)

var (
	ErrNotFound      = errors.New("document not found")
	ErrInvalidUpload = errors.New("invalid upload")
	ErrReaderNil     = errors.New("reader is nil")
	ErrFileNotFound  = errors.New("file not found")
)

const (
	// MaxUploadSize is the fixed ceiling for uploaded PDFs.
	MaxUploadSize = 20 << 20 // 20 MiB
	// PDFContentType is the only MIME type accepted for uploads.
	PDFContentType = "application/pdf"
)

// UploadParams carries an inbound file and its declared metadata.
type UploadParams struct {
	Reader           io.Reader
	OriginalFilename string
	ContentType      string
	Size             int64
	// Title overrides the default (original filename minus extension) when
	// non-empty.
	Title string
	// CategoryID nil or pointing at zero means uncategorized.
	CategoryID *int64
}

// ListParams selects one projection of the document collection. The
// branches are mutually exclusive and checked in order: category, search,
// favorites, recent, then all.
type ListParams struct {
	CategoryID *int64
	Search     string
	Favorite   bool
	Recent     bool
	Limit      int
}

// UpdateParams is the sparse field set accepted by Update. Nil fields are
// left untouched; a CategoryID of 0 clears the category.
type UpdateParams struct {
	Title      *string
	CategoryID *int64
	Thumbnail  *string
	Favorite   *bool
}

// DocumentService defines the use cases for handling documents.
type DocumentService interface {
	// Upload validates the inbound file, derives its page count, writes the
	// blob, and creates the metadata record. A failure after the blob is
	// written removes it again.
	Upload(ctx context.Context, p UploadParams) (*model.Document, error)

	// List returns the projection selected by p.
	List(ctx context.Context, p ListParams) ([]model.Document, error)

	// Open returns a document by id and records the access. The returned
	// snapshot is the state before the access was recorded.
	Open(ctx context.Context, id int64) (*model.Document, error)

	// Update applies a sparse field set and returns the merged document. It
	// does not re-validate file content.
	Update(ctx context.Context, id int64, p UpdateParams) (*model.Document, error)

	// Delete removes the metadata record and its backing blob. A missing
	// blob is logged and tolerated: the entity removal is authoritative.
	Delete(ctx context.Context, id int64) error

	// File streams the raw bytes of a stored blob for the viewer.
	File(ctx context.Context, filename string) (io.ReadCloser, storage.ObjectInfo, error)
}

// documentService is a concrete implementation of DocumentService.
type documentService struct {
	store storage.Storage
	repo  repository.DocumentRepository
	pages pdf.PageCounter
}

// NewDocumentService constructs a new DocumentService.
func NewDocumentService(store storage.Storage, repo repository.DocumentRepository, pages pdf.PageCounter) DocumentService {
	return &documentService{store: store, repo: repo, pages: pages}
}

func (s *documentService) Upload(ctx context.Context, p UploadParams) (*model.Document, error) {
	if p.Reader == nil {
		return nil, ErrReaderNil
	}
	if mediaType(p.ContentType) != PDFContentType {
		return nil, fmt.Errorf("%w: only PDF files are allowed", ErrInvalidUpload)
	}
	if p.Size > MaxUploadSize {
		return nil, fmt.Errorf("%w: file exceeds %d bytes", ErrInvalidUpload, MaxUploadSize)
	}

	// Buffer the content: the page count has to come from the full byte
	// stream, and reading everything up front means a corrupt PDF is
	// rejected before any blob exists. The declared size is not trusted.
	data, err := io.ReadAll(io.LimitReader(p.Reader, MaxUploadSize+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > MaxUploadSize {
		return nil, fmt.Errorf("%w: file exceeds %d bytes", ErrInvalidUpload, MaxUploadSize)
	}

	totalPages, err := s.pages.Count(data)
	if err != nil {
		return nil, fmt.Errorf("%w: unreadable PDF: %v", ErrInvalidUpload, err)
	}

	// Blob key: generated token + original extension; the store keeps only
	// the token, never the original name.
	ext := filepath.Ext(p.OriginalFilename)
	if ext == "" {
		ext = ".pdf"
	}
	genName := uuid.New().String() + ext

	objInfo, err := s.store.Put(ctx, genName, bytes.NewReader(data), storage.PutObjectOptions{
		Size:        int64(len(data)),
		ContentType: PDFContentType,
		Metadata: map[string]string{
			"original-filename": p.OriginalFilename,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("upload to storage: %w", err)
	}

	title := p.Title
	if title == "" {
		base := filepath.Base(p.OriginalFilename)
		title = strings.TrimSuffix(base, filepath.Ext(base))
	}

	doc := &model.Document{
		Title:      title,
		Filename:   objInfo.Key,
		Size:       objInfo.Size,
		CategoryID: normalizeCategory(p.CategoryID),
		TotalPages: &totalPages,
	}
	stored, err := s.repo.Create(ctx, doc)
	if err != nil {
		// Rollback: no orphaned blob without a metadata record.
		if delErr := s.store.Delete(ctx, genName); delErr != nil {
			return nil, fmt.Errorf("metadata save failed: %v; rollback delete failed: %v", err, delErr)
		}
		return nil, fmt.Errorf("metadata save failed: %w", err)
	}
	return stored, nil
}

// List dispatches to the repository projection matching p.
func (s *documentService) List(ctx context.Context, p ListParams) ([]model.Document, error) {
	switch {
	case p.CategoryID != nil:
		return s.repo.FindByCategory(ctx, *p.CategoryID)
	case p.Search != "":
		return s.repo.Search(ctx, p.Search)
	case p.Favorite:
		return s.repo.FindFavorites(ctx)
	case p.Recent:
		// Repositories take the limit verbatim, so the default is applied
		// here once for every driver.
		limit := p.Limit
		if limit <= 0 {
			limit = query.DefaultRecentLimit
		}
		return s.repo.FindRecent(ctx, limit)
	default:
		return s.repo.FindAll(ctx)
	}
}

// Open fetches the document, then records the access. The pre-touch
// snapshot is returned so the client sees when the document was previously
// opened.
func (s *documentService) Open(ctx context.Context, id int64) (*model.Document, error) {
	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := s.repo.Touch(ctx, id, time.Now().UTC()); err != nil {
		return nil, fmt.Errorf("record access: %w", err)
	}
	return doc, nil
}

// Update passes the sparse field set through to the repository.
func (s *documentService) Update(ctx context.Context, id int64, p UpdateParams) (*model.Document, error) {
	patch := repository.DocumentPatch{
		Title:     p.Title,
		Thumbnail: p.Thumbnail,
		Favorite:  p.Favorite,
	}
	if p.CategoryID != nil {
		patch.SetCategory = true
		patch.CategoryID = normalizeCategory(p.CategoryID)
	}
	doc, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return doc, nil
}

// Delete removes the metadata record first, then the blob. The record is
// the authoritative state, so blob removal failures are logged rather than
// surfaced; a document whose file already vanished can still be deleted.
func (s *documentService) Delete(ctx context.Context, id int64) error {
	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	if err := s.store.Delete(ctx, doc.Filename); err != nil {
		logBlobDeleteFailure(doc.ID, doc.Filename, err)
	}
	return nil
}

// File streams a stored blob by its filename token.
func (s *documentService) File(ctx context.Context, filename string) (io.ReadCloser, storage.ObjectInfo, error) {
	rc, info, err := s.store.Get(ctx, filename)
	if err != nil {
		if errors.Is(err, storage.ErrNotExist) {
			return nil, storage.ObjectInfo{}, ErrFileNotFound
		}
		return nil, storage.ObjectInfo{}, err
	}
	return rc, info, nil
}

// normalizeCategory maps the "uncategorized" sentinel (absent or zero) to
// nil. The target category's existence is deliberately not checked.
func normalizeCategory(id *int64) *int64 {
	if id == nil || *id == 0 {
		return nil
	}
	v := *id
	return &v
}

func mediaType(contentType string) string {
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		contentType = contentType[:i]
	}
	return strings.ToLower(strings.TrimSpace(contentType))
}

// warnLog carries its own flags so warn lines stay bare JSON without
// touching the process-global logger.
var warnLog = log.New(os.Stdout, "", 0)

func logBlobDeleteFailure(id int64, filename string, err error) {
	entry := map[string]any{
		"ts":       time.Now().UTC().Format(time.RFC3339Nano),
		"level":    "warn",
		"msg":      "blob_delete_failed",
		"document": id,
		"filename": filename,
		"error":    err.Error(),
	}
	if b, err := json.Marshal(entry); err == nil {
		warnLog.Println(string(b))
	}
}
