package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/proof-of-love/pol-api/internal/dto"
	"github.com/proof-of-love/pol-api/pkg/cloudinary"
)

var (
	// ErrEvidenceRequired indicates no file was attached to the request.
	ErrEvidenceRequired = errors.New("evidence file is required")
	// ErrEvidenceTooLarge indicates the payload exceeded the configured limit.
	ErrEvidenceTooLarge = errors.New("evidence file exceeds maximum allowed size")
	// ErrEvidenceTypeNotAllowed indicates the MIME type is not permitted.
	ErrEvidenceTypeNotAllowed = errors.New("evidence file type not allowed")
	// ErrEvidenceStorageUnavailable indicates no storage backend is configured.
	ErrEvidenceStorageUnavailable = errors.New("evidence storage not configured")
)

// EvidenceStore abstracts the hosting destination for evidence files.
type EvidenceStore interface {
	Upload(ctx context.Context, name string, reader io.Reader) (cloudinary.UploadResult, error)
}

// EvidenceService validates and hosts evidence files so contributors can
// attach durable links to their drafts.
type EvidenceService interface {
	Upload(ctx context.Context, file *multipart.FileHeader) (dto.EvidenceUploadResponse, error)
}

type evidenceService struct {
	store   EvidenceStore
	maxSize int64
	logger  zerolog.Logger
	tracer  trace.Tracer
}

// NewEvidenceService constructs the evidence workflow. store may be nil;
// uploads then fail fast with ErrEvidenceStorageUnavailable.
func NewEvidenceService(store EvidenceStore, maxSizeMB int, logger zerolog.Logger) EvidenceService {
	if maxSizeMB <= 0 {
		maxSizeMB = 10
	}
	return &evidenceService{
		store:   store,
		maxSize: int64(maxSizeMB) * 1024 * 1024,
		logger:  logger.With().Str("component", "evidence_service").Logger(),
		tracer:  otel.Tracer("github.com/proof-of-love/pol-api/internal/service/evidence"),
	}
}

func (s *evidenceService) Upload(ctx context.Context, file *multipart.FileHeader) (dto.EvidenceUploadResponse, error) {
	ctx, span := s.tracer.Start(ctx, "evidence.upload")
	defer span.End()

	if s.store == nil {
		return dto.EvidenceUploadResponse{}, ErrEvidenceStorageUnavailable
	}
	if file == nil {
		span.SetStatus(codes.Error, "no file")
		return dto.EvidenceUploadResponse{}, ErrEvidenceRequired
	}
	if file.Size > s.maxSize {
		span.SetStatus(codes.Error, "payload too large")
		return dto.EvidenceUploadResponse{}, ErrEvidenceTooLarge
	}

	handle, err := file.Open()
	if err != nil {
		span.RecordError(err)
		return dto.EvidenceUploadResponse{}, err
	}
	defer handle.Close()

	buf := bytes.NewBuffer(nil)
	if _, err := io.Copy(buf, io.LimitReader(handle, s.maxSize+1)); err != nil {
		span.RecordError(err)
		return dto.EvidenceUploadResponse{}, err
	}
	if int64(buf.Len()) > s.maxSize {
		span.SetStatus(codes.Error, "payload too large")
		return dto.EvidenceUploadResponse{}, ErrEvidenceTooLarge
	}

	detected := mimetype.Detect(buf.Bytes())
	span.SetAttributes(
		attribute.String("evidence.mime", detected.String()),
		attribute.Int("evidence.bytes", buf.Len()),
	)
	if !evidenceTypeAllowed(detected.String()) {
		span.SetStatus(codes.Error, "type not allowed")
		return dto.EvidenceUploadResponse{}, ErrEvidenceTypeNotAllowed
	}

	result, err := s.store.Upload(ctx, file.Filename, bytes.NewReader(buf.Bytes()))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "storage failed")
		return dto.EvidenceUploadResponse{}, err
	}

	s.logger.Info().
		Str("public_id", result.PublicID).
		Int64("bytes", result.Bytes).
		Msg("evidence stored")

	return dto.EvidenceUploadResponse{
		URL:      result.URL,
		PublicID: result.PublicID,
		Bytes:    result.Bytes,
		Format:   result.Format,
	}, nil
}

// evidenceTypeAllowed admits images, PDFs, and plain text transcripts.
func evidenceTypeAllowed(mime string) bool {
	lower := strings.ToLower(strings.TrimSpace(mime))
	if strings.HasPrefix(lower, "image/") {
		return true
	}
	switch {
	case lower == "application/pdf":
		return true
	case strings.HasPrefix(lower, "text/plain"):
		return true
	default:
		return false
	}
}
