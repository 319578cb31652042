// Command archiveload ingests a JSONL corpus export into the Redis index.
// Each input line is one document's extracted metadata; the loader embeds,
// writes the hashes, and ensures the FT index exists.
package main

import (
	"bufio"
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/openhearth/archivesearch/internal/config"
	"github.com/openhearth/archivesearch/internal/db"
	dbRedis "github.com/openhearth/archivesearch/internal/db/redis"
	"github.com/openhearth/archivesearch/internal/domain"
	logpkg "github.com/openhearth/archivesearch/internal/logger"
	openaiTr "github.com/openhearth/archivesearch/internal/transport/openai"
)

// listSeparator joins multi-valued metadata, matching the TAG SEPARATOR of
// the index schema.
const listSeparator = "|"

const maxEmbedChars = 8000

// record is one JSONL line of the corpus export.
type record struct {
	FilePath        string   `json:"file_path"`
	FileName        string   `json:"file_name"`
	WebViewLink     string   `json:"web_view_link"`
	FolderPath      string   `json:"folder_path"`
	SourceType      string   `json:"source_type"`
	PublicationDate string   `json:"publication_date"`
	People          []string `json:"people"`
	Locations       []string `json:"locations"`
	Dates           []string `json:"dates"`
	Summary         string   `json:"summary"`
	OCRContent      string   `json:"ocr_content"`
}

func main() {
	var (
		filePath  = flag.String("file", "", "path to the JSONL corpus export (required)")
		batchSize = flag.Int("batch", 64, "documents per embedding/write batch")
		recreate  = flag.Bool("recreate", false, "drop and recreate the FT index before loading")
	)
	flag.Parse()

	if *filePath == "" {
		fmt.Fprintln(os.Stderr, "archiveload: -file is required")
		flag.Usage()
		os.Exit(2)
	}

	env := config.GetEnv()
	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.New(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Password: cfg.Database.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create corpus store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Corpus store not ready", zap.Error(err))
	}

	embedder := domain.NewTruncatingEmbedder(openaiTr.NewEmbedder(&openaiTr.Config{
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		Logger:     logger,
	}), maxEmbedChars)

	if err := ensureIndex(ctx, store, cfg, *recreate); err != nil {
		logger.Fatal("Failed to ensure index", zap.Error(err))
	}

	l := &loader{
		store:     store,
		embedder:  embedder,
		keyPrefix: cfg.Database.KeyPrefix,
		batchSize: *batchSize,
		recreate:  *recreate,
		logger:    logger,
	}
	if err := l.run(ctx, *filePath); err != nil {
		logger.Fatal("Load failed", zap.Error(err))
	}

	total, err := store.SearchCount(ctx, cfg.Index.Name, "*")
	if err != nil {
		logger.Warn("Could not count indexed documents", zap.Error(err))
		return
	}
	logger.Info("Corpus load complete", zap.Int("indexed_documents", total))
}

// ensureIndex creates the FT index if missing, recreating first if asked.
func ensureIndex(ctx context.Context, store db.Store, cfg config.Config, recreate bool) error {
	exists, err := store.IndexExists(ctx, cfg.Index.Name)
	if err != nil {
		return fmt.Errorf("check index: %w", err)
	}
	if exists && !recreate {
		return nil
	}
	if exists {
		if err := store.DropIndex(ctx, cfg.Index.Name); err != nil {
			return fmt.Errorf("drop index: %w", err)
		}
	}

	def, err := db.NewIndex(cfg.Index.Name).
		Prefix(cfg.Database.KeyPrefix + "doc:").
		TextWeighted("file_name", 2).
		Text("summary").
		Text("ocr_content").
		TagWithSeparator("people", listSeparator).
		TagWithSeparator("locations", listSeparator).
		TagWithSeparator("dates", listSeparator).
		Tag("folder_path").
		Tag("source_type").
		Numeric("publication_ts").
		VectorHNSW("embedding", cfg.Embedding.Dimensions, cfg.Index.HNSWM, cfg.Index.HNSWEFConstruct).
		Build()
	if err != nil {
		return fmt.Errorf("build index definition: %w", err)
	}

	if err := store.CreateIndex(ctx, def); err != nil {
		return fmt.Errorf("create index: %w", err)
	}
	return nil
}

type loader struct {
	store     db.Store
	embedder  *domain.TruncatingEmbedder
	keyPrefix string
	batchSize int
	recreate  bool
	logger    *zap.Logger

	loaded  int
	skipped int
}

func (l *loader) run(ctx context.Context, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open corpus file: %w", err)
	}
	defer func() { _ = f.Close() }()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 1024*1024), 16*1024*1024)

	batch := make([]domain.Document, 0, l.batchSize)
	line := 0
	for scanner.Scan() {
		line++
		raw := strings.TrimSpace(scanner.Text())
		if raw == "" {
			continue
		}

		var rec record
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			l.logger.Warn("Skipping malformed line", zap.Int("line", line), zap.Error(err))
			continue
		}
		if rec.FilePath == "" {
			l.logger.Warn("Skipping record without file_path", zap.Int("line", line))
			continue
		}

		batch = append(batch, recordToDocument(rec))
		if len(batch) >= l.batchSize {
			if err := l.flush(ctx, batch); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read corpus file: %w", err)
	}
	if len(batch) > 0 {
		if err := l.flush(ctx, batch); err != nil {
			return err
		}
	}

	l.logger.Info("Load finished",
		zap.Int("loaded", l.loaded),
		zap.Int("skipped", l.skipped),
	)
	return nil
}

// flush embeds a batch and writes the document hashes in one pipeline.
func (l *loader) flush(ctx context.Context, docs []domain.Document) error {
	fresh := docs
	if !l.recreate {
		fresh = make([]domain.Document, 0, len(docs))
		for _, d := range docs {
			exists, err := l.store.Exists(ctx, l.docKey(d.FilePath))
			if err != nil {
				return fmt.Errorf("check document %s: %w", d.FilePath, err)
			}
			if exists {
				l.skipped++
				continue
			}
			fresh = append(fresh, d)
		}
		if len(fresh) == 0 {
			return nil
		}
	}

	texts := make([]string, len(fresh))
	for i := range fresh {
		texts[i] = fresh[i].EmbeddingText()
	}

	result, err := l.embedder.BatchEmbed(ctx, texts)
	if err != nil {
		return fmt.Errorf("embed batch: %w", err)
	}
	if len(result.Embeddings) != len(fresh) {
		return fmt.Errorf("embed batch: got %d vectors for %d documents",
			len(result.Embeddings), len(fresh))
	}

	items := make([]db.HashSetItem, len(fresh))
	for i := range fresh {
		items[i] = db.HashSetItem{
			Key:    l.docKey(fresh[i].FilePath),
			Fields: documentFields(&fresh[i], result.Embeddings[i]),
		}
	}
	if err := l.store.HSetMulti(ctx, items); err != nil {
		return fmt.Errorf("write batch: %w", err)
	}

	l.loaded += len(fresh)
	l.logger.Info("Batch written",
		zap.Int("documents", len(fresh)),
		zap.Int("tokens", result.TotalTokens),
	)
	return nil
}

// docKey derives a stable hash key from the file path.
func (l *loader) docKey(filePath string) string {
	sum := sha256.Sum256([]byte(filePath))
	return l.keyPrefix + "doc:" + hex.EncodeToString(sum[:8])
}

func recordToDocument(rec record) domain.Document {
	return domain.Document{
		FilePath:        rec.FilePath,
		FileName:        rec.FileName,
		WebViewLink:     rec.WebViewLink,
		FolderPath:      rec.FolderPath,
		SourceType:      domain.SourceType(rec.SourceType),
		PublicationDate: rec.PublicationDate,
		People:          rec.People,
		Locations:       rec.Locations,
		Dates:           rec.Dates,
		Summary:         rec.Summary,
		OCRContent:      rec.OCRContent,
	}
}

// documentFields maps a document onto the hash fields the FT index covers.
func documentFields(d *domain.Document, embedding []float32) map[string]string {
	fields := map[string]string{
		"file_path": d.FilePath,
		"file_name": d.FileName,
		"embedding": vectorToBytes(embedding),
	}
	if d.WebViewLink != "" {
		fields["web_view_link"] = d.WebViewLink
	}
	if d.FolderPath != "" {
		fields["folder_path"] = d.FolderPath
	}
	if d.SourceType != "" {
		fields["source_type"] = string(d.SourceType)
	}
	if d.Summary != "" {
		fields["summary"] = d.Summary
	}
	if d.OCRContent != "" {
		fields["ocr_content"] = d.OCRContent
	}
	if len(d.People) > 0 {
		fields["people"] = strings.Join(d.People, listSeparator)
	}
	if len(d.Locations) > 0 {
		fields["locations"] = strings.Join(d.Locations, listSeparator)
	}
	if len(d.Dates) > 0 {
		fields["dates"] = strings.Join(d.Dates, listSeparator)
	}
	if d.PublicationDate != "" {
		fields["publication_date"] = d.PublicationDate
		if ts, err := time.Parse("2006-01-02", d.PublicationDate); err == nil {
			fields["publication_ts"] = strconv.FormatInt(ts.UTC().Unix(), 10)
		}
	}
	return fields
}

func vectorToBytes(v []float32) string {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return string(buf)
}
