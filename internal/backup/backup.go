// Package backup snapshots the SQLite database to local files and, when
// configured, to S3-compatible object storage.
package backup

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/dukerupert/choreboard/internal/metrics"
)

const (
	filePrefix  = "choreboard-"
	timeLayout  = "20060102T150405Z"
	sqliteMagic = "SQLite format 3\x00"
)

// ObjectStore is the subset of the S3 client backups use.
type ObjectStore interface {
	PutObject(ctx context.Context, input *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, input *s3.GetObjectInput, opts ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Config holds S3-compatible storage settings.
type S3Config struct {
	Endpoint  string
	Bucket    string
	Region    string
	AccessKey string
	SecretKey string
	Prefix    string
}

// Enabled reports whether uploads are configured.
func (c S3Config) Enabled() bool {
	return c.Bucket != "" && c.AccessKey != "" && c.SecretKey != ""
}

type Config struct {
	Dir        string
	Passphrase string
	// Retain is how many local snapshots to keep. Zero keeps all.
	Retain int
	S3     S3Config
}

// Result describes a finished backup.
type Result struct {
	Path      string
	Size      int64
	Encrypted bool
	S3Key     string
}

// Manager takes database snapshots. Runs are serialized.
type Manager struct {
	mu      sync.Mutex
	db      *sql.DB
	cfg     Config
	objects ObjectStore
	logger  *slog.Logger
	now     func() time.Time
}

func NewManager(db *sql.DB, cfg Config, logger *slog.Logger) *Manager {
	m := &Manager{db: db, cfg: cfg, logger: logger, now: time.Now}
	if cfg.S3.Enabled() {
		m.objects = newS3Client(cfg.S3)
	}
	return m
}

func newS3Client(cfg S3Config) *s3.Client {
	opts := s3.Options{
		Region:       cfg.Region,
		Credentials:  credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		UsePathStyle: true,
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
	}
	return s3.New(opts)
}

// Run writes a consistent snapshot to the backup directory, encrypting it
// when a passphrase is set, uploads it when S3 is configured, and prunes old
// local snapshots.
func (m *Manager) Run(ctx context.Context) (Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	res, err := m.run(ctx)
	if err != nil {
		metrics.BackupsTotal.WithLabelValues("error").Inc()
		m.logger.Error("backup failed", "error", err)
		return Result{}, err
	}
	metrics.BackupsTotal.WithLabelValues("ok").Inc()
	metrics.BackupLastSuccess.SetToCurrentTime()
	m.logger.Info("backup written", "path", res.Path, "bytes", res.Size, "encrypted", res.Encrypted, "s3_key", res.S3Key)
	return res, nil
}

func (m *Manager) run(ctx context.Context) (Result, error) {
	if err := os.MkdirAll(m.cfg.Dir, 0o750); err != nil {
		return Result{}, fmt.Errorf("create backup dir: %w", err)
	}

	name := filePrefix + m.now().UTC().Format(timeLayout) + ".db"
	tmp := filepath.Join(m.cfg.Dir, "."+name+".tmp")
	os.Remove(tmp)
	defer os.Remove(tmp)

	if _, err := m.db.ExecContext(ctx, `VACUUM INTO ?`, tmp); err != nil {
		return Result{}, fmt.Errorf("snapshot database: %w", err)
	}
	data, err := os.ReadFile(tmp)
	if err != nil {
		return Result{}, fmt.Errorf("read snapshot: %w", err)
	}

	res := Result{}
	if m.cfg.Passphrase != "" {
		if data, err = Seal(data, m.cfg.Passphrase); err != nil {
			return Result{}, fmt.Errorf("encrypt snapshot: %w", err)
		}
		name += ".enc"
		res.Encrypted = true
	}

	res.Path = filepath.Join(m.cfg.Dir, name)
	res.Size = int64(len(data))
	if err := os.WriteFile(res.Path, data, 0o600); err != nil {
		return Result{}, fmt.Errorf("write backup: %w", err)
	}

	if m.objects != nil {
		key := path.Join(m.cfg.S3.Prefix, name)
		_, err := m.objects.PutObject(ctx, &s3.PutObjectInput{
			Bucket:        aws.String(m.cfg.S3.Bucket),
			Key:           aws.String(key),
			Body:          bytes.NewReader(data),
			ContentLength: aws.Int64(res.Size),
		})
		if err != nil {
			return Result{}, fmt.Errorf("upload to s3: %w", err)
		}
		res.S3Key = key
	}

	if err := m.prune(); err != nil {
		return Result{}, err
	}
	return res, nil
}

// List returns local snapshot paths, newest first.
func (m *Manager) List() ([]string, error) {
	entries, err := os.ReadDir(m.cfg.Dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read backup dir: %w", err)
	}
	var paths []string
	for _, e := range entries {
		if e.Type().IsRegular() && strings.HasPrefix(e.Name(), filePrefix) {
			paths = append(paths, filepath.Join(m.cfg.Dir, e.Name()))
		}
	}
	// Names embed a sortable UTC timestamp.
	slices.Sort(paths)
	slices.Reverse(paths)
	return paths, nil
}

func (m *Manager) prune() error {
	if m.cfg.Retain <= 0 {
		return nil
	}
	paths, err := m.List()
	if err != nil {
		return err
	}
	for _, p := range paths[min(m.cfg.Retain, len(paths)):] {
		if err := os.Remove(p); err != nil {
			return fmt.Errorf("prune %s: %w", p, err)
		}
		m.logger.Debug("pruned backup", "path", p)
	}
	return nil
}

// Fetch downloads an uploaded snapshot by key into dst.
func (m *Manager) Fetch(ctx context.Context, key, dst string) error {
	if m.objects == nil {
		return errors.New("s3 is not configured")
	}
	out, err := m.objects.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(m.cfg.S3.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("download %s: %w", key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return fmt.Errorf("read %s: %w", key, err)
	}
	if err := os.WriteFile(dst, data, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", dst, err)
	}
	return nil
}

// Restore writes the snapshot at src to dst, decrypting it if needed. It
// refuses to replace an existing dst unless overwrite is set. The server
// must not be running against dst.
func Restore(src, dst, passphrase string, overwrite bool) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("read backup: %w", err)
	}
	if IsSealed(data) {
		if passphrase == "" {
			return errors.New("backup is encrypted: set CHOREBOARD_BACKUP_PASSPHRASE")
		}
		if data, err = Open(data, passphrase); err != nil {
			return err
		}
	}
	if !bytes.HasPrefix(data, []byte(sqliteMagic)) {
		return errors.New("backup is not a SQLite database")
	}

	if !overwrite {
		if _, err := os.Stat(dst); err == nil {
			return fmt.Errorf("%s already exists", dst)
		}
	}

	tmp := dst + ".restore"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write restore: %w", err)
	}
	// Stale WAL files would be replayed over the restored database.
	for _, suffix := range []string{"-wal", "-shm"} {
		os.Remove(dst + suffix)
	}
	if err := os.Rename(tmp, dst); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace database: %w", err)
	}
	return nil
}
