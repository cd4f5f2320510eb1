package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/Pankajol/aits-erp-core/internal/application/document"
	"github.com/Pankajol/aits-erp-core/internal/domain/entity"
)

var _ document.FileStorage = (*LocalStorage)(nil)

// LocalStorage guarda adjuntos en disco local. El nombre físico es un UUID para
// evitar colisiones y path traversal; el nombre original se conserva en metadatos.
type LocalStorage struct {
	dir     string
	baseURL string
}

// NewLocalStorage construye el adaptador y asegura que el directorio exista.
func NewLocalStorage(dir, baseURL string) (*LocalStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("crear directorio de adjuntos: %w", err)
	}
	return &LocalStorage{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Upload escribe el archivo y devuelve su referencia pública.
func (s *LocalStorage) Upload(ctx context.Context, fileName string, content []byte) (*entity.Attachment, error) {
	id := uuid.New().String()
	ext := filepath.Ext(fileName)
	stored := id + ext
	path := filepath.Join(s.dir, stored)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return nil, fmt.Errorf("escribir adjunto %s: %w", fileName, err)
	}
	return &entity.Attachment{
		URL:      s.baseURL + "/" + stored,
		PublicID: stored,
		FileName: filepath.Base(fileName),
	}, nil
}

// Delete elimina el archivo físico. Ignora la ausencia: borrar dos veces no es error.
func (s *LocalStorage) Delete(ctx context.Context, publicID string) error {
	path := filepath.Join(s.dir, filepath.Base(publicID))
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("eliminar adjunto %s: %w", publicID, err)
	}
	return nil
}
