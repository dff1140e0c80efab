package catalog

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jgivc/mediaconvert/internal/config"
	"github.com/jgivc/mediaconvert/internal/entity"
	"gopkg.in/yaml.v2"
)

const (
	columnSeparator = " \t "
	fmDelimiter     = "---\n"
	minColumns      = 5
)

type FSAdapter interface {
	ListDirs(root string) ([]string, error)
	ReadFile(path string) ([]byte, error)
	WriteFile(path string, data []byte) error
	ReadJSON(path string, v any) error
}

// Project is the front matter of a project index page.
type Project struct {
	Index string   `yaml:"index"`
	Slug  string   `yaml:"slug"`
	Title string   `yaml:"title"`
	Text  string   `yaml:"text"`
	Year  string   `yaml:"year"`
	Tags  []string `yaml:"tags"`
}

type CatalogService struct {
	fs      FSAdapter
	cfg     *config.CatalogConfig
	convCfg *config.ConvertConfig
	log     *slog.Logger
}

func NewCatalogService(fs FSAdapter, cfg *config.CatalogConfig, convCfg *config.ConvertConfig, log *slog.Logger) *CatalogService {
	return &CatalogService{
		fs:      fs,
		cfg:     cfg,
		convCfg: convCfg,
		log:     log.With(slog.String("item", "CatalogService")),
	}
}

// WriteYearsCSV lists every converted unit under root with the year of its oldest file.
func (s *CatalogService) WriteYearsCSV(root string) (string, error) {
	dirs, err := s.fs.ListDirs(root)
	if err != nil {
		return "", fmt.Errorf("cannot list %s: %w", root, err)
	}

	rows := [][]string{{"index", "slug", "year"}}

	var n int
	for _, dir := range dirs {
		if isIgnored(dir) {
			continue
		}

		index := n
		n++

		year, err := s.unitYear(filepath.Join(root, dir))
		if err != nil {
			s.log.Warn("Skip unit", slog.String("dir", dir), slog.Any("error", err))

			continue
		}

		rows = append(rows, []string{strconv.Itoa(index), strings.TrimSuffix(dir, s.convCfg.OutputSuffix), year})
	}

	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, strings.Join(row, columnSeparator))
	}

	path := filepath.Join(root, s.cfg.CSVName)
	if err := s.fs.WriteFile(path, []byte(strings.Join(lines, "\n"))); err != nil {
		return "", fmt.Errorf("cannot write %s: %w", path, err)
	}

	s.log.Info("Years written", slog.String("path", path), slog.Int("units", len(rows)-1))

	return path, nil
}

// unitYear returns the earliest modification year among the manifest records of dir, empty when there are none.
func (s *CatalogService) unitYear(dir string) (string, error) {
	var records []*entity.FileRecord
	if err := s.fs.ReadJSON(filepath.Join(dir, s.convCfg.ManifestName), &records); err != nil {
		return "", err
	}

	year := 0
	for _, r := range records {
		if r == nil {
			continue
		}

		if y := r.Metadata.ModTime.Year(); year == 0 || y < year {
			year = y
		}
	}

	if year == 0 {
		return "", nil
	}

	return strconv.Itoa(year), nil
}

// WriteFrontmatter writes an index page for every project listed in the root data file.
// It returns the written paths.
func (s *CatalogService) WriteFrontmatter(root string) ([]string, error) {
	dataPath := filepath.Join(root, s.cfg.DataFileName)

	data, err := s.fs.ReadFile(dataPath)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", dataPath, err)
	}

	projects, err := ParseProjects(data)
	if err != nil {
		return nil, fmt.Errorf("cannot parse %s: %w", dataPath, err)
	}

	projectsDir := filepath.Join(root, s.cfg.ProjectsDir)
	dirs, err := s.fs.ListDirs(projectsDir)
	if err != nil {
		return nil, fmt.Errorf("cannot list %s: %w", projectsDir, err)
	}

	bySlug := make(map[string]string, len(dirs))
	for _, dir := range dirs {
		if isIgnored(dir) {
			continue
		}

		bySlug[strings.TrimSuffix(dir, s.convCfg.OutputSuffix)] = dir
	}

	written := []string{}
	for _, p := range projects {
		dir, ok := bySlug[p.Slug]
		if !ok {
			s.log.Warn("No project folder", slog.String("slug", p.Slug))

			continue
		}

		page, err := Frontmatter(p)
		if err != nil {
			return written, err
		}

		path := filepath.Join(projectsDir, dir, s.cfg.IndexName)
		if err := s.fs.WriteFile(path, page); err != nil {
			return written, fmt.Errorf("cannot write %s: %w", path, err)
		}

		s.log.Debug("Index written", slog.String("slug", p.Slug), slog.String("path", path))
		written = append(written, path)
	}

	return written, nil
}

// ParseProjects reads project rows: index, slug, title, text, year and any number of tags.
// The first row is a header. Values are lower-cased and empty tags dropped.
func ParseProjects(data []byte) ([]Project, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	var (
		projects []Project
		header   = true
	)

	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		if header {
			header = false

			continue
		}

		if len(row) < minColumns {
			continue
		}

		for i := range row {
			row[i] = strings.ToLower(strings.TrimSpace(row[i]))
		}

		p := Project{
			Index: row[0],
			Slug:  row[1],
			Title: row[2],
			Text:  row[3],
			Year:  row[4],
			Tags:  []string{},
		}

		for _, tag := range row[minColumns:] {
			if tag != "" {
				p.Tags = append(p.Tags, tag)
			}
		}

		projects = append(projects, p)
	}

	return projects, nil
}

func Frontmatter(p Project) ([]byte, error) {
	data, err := yaml.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("cannot marshal front matter of %s: %w", p.Slug, err)
	}

	return []byte(fmDelimiter + string(data) + fmDelimiter), nil
}

func isIgnored(name string) bool {
	return strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")
}
