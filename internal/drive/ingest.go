package drive

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/radiocast/backend-go/internal/repository"
	"github.com/radiocast/backend-go/internal/storage"
)

// IngestService copies audio files out of the Drive drop folder into the
// object store, recording each transfer so a re-run skips what was already
// ingested. The reconciliation browser then picks the objects up like any
// other upload.
type IngestService struct {
	driveService *Service
	selector     storage.Provider
	repo         *repository.DriveIngestRepository
	prefix       string
}

func NewIngestService(driveService *Service, selector storage.Provider, repo *repository.DriveIngestRepository, prefix string) *IngestService {
	return &IngestService{
		driveService: driveService,
		selector:     selector,
		repo:         repo,
		prefix:       prefix,
	}
}

// IngestFile streams one Drive file into the object store.
func (s *IngestService) IngestFile(ctx context.Context, fileID string) (string, error) {
	if done, path, err := s.repo.Ingested(ctx, fileID); err != nil {
		return "", err
	} else if done {
		return path, nil
	}

	file, err := s.driveService.GetFile(fileID)
	if err != nil {
		return "", err
	}
	if !isAudio(file.Name, file.MimeType) {
		return "", fmt.Errorf("file %s is not audio", file.Name)
	}

	store, err := s.selector.Select()
	if err != nil {
		return "", err
	}

	path := s.prefix + sanitizeFilename(file.Name)

	pr, pw := io.Pipe()
	go func() {
		pw.CloseWithError(s.driveService.DownloadFile(fileID, pw))
	}()

	contentType := file.MimeType
	if !strings.HasPrefix(contentType, "audio/") {
		contentType = "audio/mpeg"
	}
	if err := store.Put(ctx, path, contentType, pr, file.Size); err != nil {
		pr.CloseWithError(err)
		return "", err
	}

	if err := s.repo.MarkIngested(ctx, fileID, file.Name, path); err != nil {
		// The object landed; a failed bookkeeping row only costs a
		// duplicate upload on the next run.
		log.Error().Err(err).Str("file_id", fileID).Msg("failed to record drive ingest")
	}

	log.Info().Str("file", file.Name).Str("path", path).Msg("drive file ingested")
	return path, nil
}

// IngestFolder ingests every audio file in a folder, continuing past
// individual failures and reporting them at the end.
func (s *IngestService) IngestFolder(ctx context.Context, folderID string) ([]string, error) {
	files, err := s.driveService.ListAudioFiles(folderID)
	if err != nil {
		return nil, err
	}

	var (
		paths  []string
		failed int
	)
	for _, file := range files {
		select {
		case <-ctx.Done():
			return paths, ctx.Err()
		default:
		}

		path, err := s.IngestFile(ctx, file.ID)
		if err != nil {
			failed++
			log.Error().Err(err).Str("file", file.Name).Msg("drive ingest failed")
			continue
		}
		paths = append(paths, path)
	}

	if failed > 0 {
		return paths, fmt.Errorf("%d of %d files failed to ingest", failed, len(files))
	}
	return paths, nil
}

// sanitizeFilename keeps the basename safe for an object key: lowercase,
// spaces collapsed to dashes, anything else non-alphanumeric dropped except
// the extension dot.
func sanitizeFilename(name string) string {
	ext := ""
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		ext = strings.ToLower(name[i:])
		name = name[:i]
	}

	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-") + ext
}
