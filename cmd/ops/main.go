package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/SADD1990/Taskmanager/internal/config"
	"github.com/SADD1990/Taskmanager/internal/ops"
	"github.com/SADD1990/Taskmanager/internal/store"
	"github.com/SADD1990/Taskmanager/internal/vcard"
)

func main() {
	root := &cobra.Command{
		Use:          "taskmanager-ops",
		Short:        "Operational chores for the task ledger: backups and contact interchange",
		SilenceUsage: true,
	}

	var cfgPath string
	root.PersistentFlags().StringVar(&cfgPath, "config", "taskmanager_config.yml", "path to config file")

	root.AddCommand(backupCmd(), restoreCmd(), importCmd(&cfgPath), exportCmd(&cfgPath))

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func backupCmd() *cobra.Command {
	var dataDir, out string
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Pack the data directory into a tar.gz archive",
		RunE: func(cmd *cobra.Command, args []string) error {
			if out == "" {
				out = filepath.Join("backups", ops.DefaultArchiveName(time.Now().UTC()))
			}
			if err := ops.BackupDataDir(dataDir, out); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().StringVar(&dataDir, "data-dir", "data", "path to data directory")
	cmd.Flags().StringVar(&out, "out", "", "output archive path (.tar.gz)")
	return cmd
}

func restoreCmd() *cobra.Command {
	var archive, target string
	cmd := &cobra.Command{
		Use:   "restore",
		Short: "Unpack a backup archive into a directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			if archive == "" {
				return fmt.Errorf("--archive is required")
			}
			return ops.RestoreDataDir(archive, target)
		},
	}
	cmd.Flags().StringVar(&archive, "archive", "", "input backup archive (.tar.gz)")
	cmd.Flags().StringVar(&target, "target-dir", "data-restored", "restore target directory")
	return cmd
}

func importCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file|->",
		Short: "Merge clients from a vCard file into the ledger",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(*cfgPath)
			if err != nil {
				return err
			}
			in, err := vcard.FileExchange{ImportPath: args[0]}.RequestImportText()
			if err != nil {
				return err
			}
			if in.Cancelled {
				fmt.Fprintln(cmd.OutOrStdout(), "import cancelled")
				return nil
			}
			res, err := vcard.Import(st, in.Text)
			if err != nil {
				return err
			}
			for _, d := range res.Diagnostics {
				fmt.Fprintln(cmd.ErrOrStderr(), "warning:", d)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %d, skipped %d\n", res.Created, res.Skipped)
			return nil
		},
	}
}

func exportCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "export <file|->",
		Short: "Write all clients as vCard text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(*cfgPath)
			if err != nil {
				return err
			}
			out, err := vcard.FileExchange{ExportPath: args[0]}.DeliverExportText(vcard.Serialize(st.Clients()))
			if err != nil {
				return err
			}
			if out.Cancelled {
				fmt.Fprintln(cmd.OutOrStdout(), "export cancelled")
				return nil
			}
			fmt.Fprintln(cmd.ErrOrStderr(), "exported to", out.Location)
			return nil
		},
	}
}

func openStore(cfgPath string) (*store.Store, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}

	var gw store.Gateway
	switch cfg.Storage {
	case "sqlite":
		gw, err = store.NewSQLiteGateway(cfg.DataDir)
	default:
		gw, err = store.NewFileGateway(cfg.DataDir)
	}
	if err != nil {
		return nil, err
	}

	st := store.New(gw)
	if err := st.Load(); err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	return st, nil
}
