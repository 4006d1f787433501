package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dukerupert/choreboard/internal/backup"
	"github.com/dukerupert/choreboard/internal/config"
	"github.com/dukerupert/choreboard/internal/database"
	"github.com/dukerupert/choreboard/internal/logging"
)

var (
	restoreTo     string
	restoreFromS3 bool
	restoreForce  bool
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Snapshot the database now",
	Long: `Snapshot the database into CHOREBOARD_BACKUP_DIR.

The snapshot is encrypted when CHOREBOARD_BACKUP_PASSPHRASE is set and
uploaded when CHOREBOARD_S3_BUCKET and its credentials are set. Only the
newest CHOREBOARD_BACKUP_RETAIN local snapshots are kept.`,
	Args: cobra.NoArgs,
	RunE: runBackup,
}

var backupListCmd = &cobra.Command{
	Use:   "list",
	Short: "List local snapshots, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd.Context())
		if err != nil {
			return err
		}
		logger := logging.Setup(cfg.LogLevel, cfg.LogFormat, cmd.ErrOrStderr())
		paths, err := backup.NewManager(nil, backupConfig(cfg), logger).List()
		if err != nil {
			return err
		}
		if len(paths) == 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "No snapshots in %s\n", cfg.Backup.Dir)
			return nil
		}
		for _, p := range paths {
			fmt.Fprintln(cmd.OutOrStdout(), p)
		}
		return nil
	},
}

var restoreCmd = &cobra.Command{
	Use:   "restore FILE",
	Short: "Restore the database from a snapshot",
	Long: `Restore the database from a snapshot file, or from an uploaded
snapshot key with --s3. Stop the server first.`,
	Example: `  choreboard restore backups/choreboard-20260401T030000Z.db.enc
  choreboard restore --s3 nightly/choreboard-20260401T030000Z.db.enc --force`,
	Args: cobra.ExactArgs(1),
	RunE: runRestore,
}

func init() {
	restoreCmd.Flags().StringVar(&restoreTo, "to", "", "database path to write (default CHOREBOARD_DB_PATH)")
	restoreCmd.Flags().BoolVar(&restoreFromS3, "s3", false, "treat FILE as an S3 object key")
	restoreCmd.Flags().BoolVar(&restoreForce, "force", false, "replace an existing database")

	backupCmd.AddCommand(backupListCmd)
	RootCmd.AddCommand(backupCmd)
	RootCmd.AddCommand(restoreCmd)
}

func backupConfig(cfg *config.Config) backup.Config {
	b := cfg.Backup
	return backup.Config{
		Dir:        b.Dir,
		Passphrase: b.Passphrase,
		Retain:     b.Retain,
		S3: backup.S3Config{
			Endpoint:  b.S3.Endpoint,
			Bucket:    b.S3.Bucket,
			Region:    b.S3.Region,
			AccessKey: b.S3.AccessKey,
			SecretKey: b.S3.SecretKey,
			Prefix:    b.S3.Prefix,
		},
	}
}

func runBackup(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd.Context())
	if err != nil {
		return err
	}
	logger := logging.Setup(cfg.LogLevel, cfg.LogFormat, cmd.ErrOrStderr())

	db, err := database.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	res, err := backup.NewManager(db, backupConfig(cfg), logger).Run(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d bytes)\n", res.Path, res.Size)
	if res.S3Key != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "Uploaded to s3://%s/%s\n", cfg.Backup.S3.Bucket, res.S3Key)
	}
	return nil
}

func runRestore(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd.Context())
	if err != nil {
		return err
	}
	dst := restoreTo
	if dst == "" {
		dst = cfg.DBPath
	}

	src := args[0]
	if restoreFromS3 {
		logger := logging.Setup(cfg.LogLevel, cfg.LogFormat, cmd.ErrOrStderr())
		tmp, err := os.CreateTemp("", "choreboard-restore-*")
		if err != nil {
			return fmt.Errorf("create temp file: %w", err)
		}
		tmp.Close()
		defer os.Remove(tmp.Name())

		if err := backup.NewManager(nil, backupConfig(cfg), logger).Fetch(cmd.Context(), src, tmp.Name()); err != nil {
			return err
		}
		src = tmp.Name()
	}

	if err := backup.Restore(src, dst, cfg.Backup.Passphrase, restoreForce); err != nil {
		return err
	}
	abs, _ := filepath.Abs(dst)
	fmt.Fprintf(cmd.OutOrStdout(), "Restored %s from %s\n", abs, args[0])
	return nil
}
