// Package export writes enriched trending rows as CSV.
//
// The column names, their order and the sentinel values written for
// missing data are a file format consumed downstream; keep them stable.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"ad-tracker/youtube-trending-collector/internal/model"
)

// Sentinels written when a value could not be resolved.
const (
	NotAvailable   = "N/A"
	ZeroEngagement = "0%"
	ZeroHours      = "0 horas"
	ZeroDuration   = "00:00:00"
)

const fileNameLayout = "2006-01-02_15h04m"

// Columns is the header row, in file order.
var Columns = []string{
	"Posicao na coleta",
	"Gênero do vídeo",
	"Tipo de produtor",
	"Categoria do vídeo",
	"guideCategory",
	"Taxa de engajamento",
	"Idioma",
	"Posicao Geral",
	"Id do canal",
	"Canal",
	"Inscritos no canal",
	"Id do vídeo",
	"Data de publicação",
	"Diferenca de horas entre postagem e coleta",
	"Título do vídeo",
	"Descrição do vídeo",
	"Tags do video",
	"Duração do vídeo",
	"Visualizações",
	"Gostei",
	"Comentários",
	"thumbnail_maxres",
	"Pais",
}

// Record renders row as CSV cells matching Columns.
func Record(row *model.EnrichedRow) []string {
	position := strconv.Itoa(row.Position)

	return []string{
		position,
		"", // Gênero do vídeo
		"", // Tipo de produtor
		row.CategoryID,
		row.GuideCategory.Or(NotAvailable),
		FormatEngagement(row),
		row.Language,
		position,
		row.ChannelID,
		row.ChannelTitle,
		strconv.FormatUint(row.Subscribers.Or(0), 10),
		row.VideoID,
		row.PublishedAt,
		FormatHours(row),
		row.Title,
		row.Description,
		strings.Join(row.Tags, ", "),
		FormatDuration(row),
		strconv.FormatUint(row.ViewCount, 10),
		strconv.FormatUint(row.LikeCount, 10),
		strconv.FormatUint(row.CommentCount, 10),
		row.ThumbnailMaxres,
		row.Country.Or(NotAvailable),
	}
}

// FormatClock renders d as zero-padded HH:MM:SS. Hours are not wrapped.
func FormatClock(d time.Duration) string {
	total := int64(d / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, total%3600/60, total%60)
}

// FormatEngagement renders the engagement rate cell.
func FormatEngagement(row *model.EnrichedRow) string {
	rate, ok := row.EngagementRate.Get()
	if !ok {
		return ZeroEngagement
	}
	return fmt.Sprintf("%.2f%%", rate)
}

// FormatHours renders the hours-since-publish cell.
func FormatHours(row *model.EnrichedRow) string {
	hours, ok := row.HoursSincePublish.Get()
	if !ok {
		return ZeroHours
	}
	return fmt.Sprintf("%.2f horas", hours)
}

// FormatDuration renders the duration cell.
func FormatDuration(row *model.EnrichedRow) string {
	d, ok := row.Duration.Get()
	if !ok {
		return ZeroDuration
	}
	return FormatClock(d)
}

// Write encodes the header and rows to w with CRLF line endings.
func Write(w io.Writer, rows []*model.EnrichedRow) error {
	cw := csv.NewWriter(w)
	cw.UseCRLF = true

	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, row := range rows {
		if err := cw.Write(Record(row)); err != nil {
			return fmt.Errorf("write row %d: %w", row.Position, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// FileName returns the timestamped name for a file written at t.
func FileName(t time.Time) string {
	return t.Format(fileNameLayout) + ".csv"
}

// CSVExporter writes rows to a file in its output directory, named after the
// current time in its location unless a fixed name was given.
type CSVExporter struct {
	dir       string
	location  *time.Location
	fixedName string
	now       func() time.Time
	logger    *zap.Logger
}

// NewCSVExporter creates a new CSV exporter. A nil location means UTC.
func NewCSVExporter(dir string, location *time.Location, fixedName string, logger *zap.Logger) *CSVExporter {
	if dir == "" {
		dir = "."
	}
	if location == nil {
		location = time.UTC
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CSVExporter{
		dir:       dir,
		location:  location,
		fixedName: fixedName,
		now:       time.Now,
		logger:    logger,
	}
}

// SetClock replaces the clock used to name files.
func (e *CSVExporter) SetClock(now func() time.Time) {
	e.now = now
}

// Path returns the absolute path the next export would write to.
func (e *CSVExporter) Path() (string, error) {
	name := e.fixedName
	if name == "" {
		name = FileName(e.now().In(e.location))
	}
	return filepath.Abs(filepath.Join(e.dir, name))
}

// Export creates or truncates the target file and writes rows to it.
func (e *CSVExporter) Export(rows []*model.EnrichedRow) (string, error) {
	path, err := e.Path()
	if err != nil {
		return "", fmt.Errorf("resolve output path: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}

	if err := Write(f, rows); err != nil {
		f.Close()
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", path, err)
	}

	e.logger.Info("csv exported", zap.String("path", path), zap.Int("rows", len(rows)))
	return path, nil
}
