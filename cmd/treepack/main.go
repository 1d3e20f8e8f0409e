package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/marmos91/treepack/internal/logger"
	"github.com/marmos91/treepack/pkg/config"
	"github.com/marmos91/treepack/pkg/pack"
	"github.com/marmos91/treepack/pkg/store/content"
	contentFs "github.com/marmos91/treepack/pkg/store/content/fs"
	"github.com/marmos91/treepack/pkg/vtree"
)

func main() {
	configPath := flag.String("config", "", "Path to config file (default: "+config.GetDefaultConfigPath()+")")
	logLevel := flag.String("log-level", "", "Log level override (DEBUG, INFO, WARN, ERROR)")
	mode := flag.String("mode", "", "Operation: pack, unpack or inspect")
	in := flag.String("in", "", "Input: directory to pack, or pack file to unpack/inspect")
	out := flag.String("out", "", "Output: pack file to write, or directory to unpack into")
	partSize := flag.Uint64("part-size", 0, "Part size in bytes (0 = from config)")

	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Flags win over file and environment
	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}
	if *partSize != 0 {
		cfg.Pack.PartSize = *partSize
	}

	logger.SetLevel(cfg.Logging.Level)
	logFile, err := logger.SetOutput(cfg.Logging.Output)
	if err != nil {
		log.Fatalf("Failed to set log output: %v", err)
	}
	if logFile != nil {
		defer logFile.Close()
	}

	// Ctrl-C cancels the context and aborts the streaming loops
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch *mode {
	case "pack":
		err = runPack(ctx, cfg, *in, *out)
	case "unpack":
		err = runUnpack(ctx, cfg, *in, *out)
	case "inspect":
		err = runInspect(ctx, *in)
	default:
		flag.Usage()
		log.Fatalf("Unknown mode %q (expected pack, unpack or inspect)", *mode)
	}

	if err != nil {
		logger.Error("%s failed: %v", *mode, err)
		os.Exit(1)
	}
}

// runPack walks a directory into a tree and streams it to a pack file.
func runPack(ctx context.Context, cfg *config.Config, in, out string) error {
	if in == "" || out == "" {
		return fmt.Errorf("pack requires -in DIRECTORY and -out FILE")
	}

	root, err := buildTreeFromDir(ctx, in)
	if err != nil {
		return fmt.Errorf("build tree from %s: %w", in, err)
	}

	files, folders, err := root.Count(ctx)
	if err != nil {
		return err
	}
	total, err := root.ByteCount(ctx)
	if err != nil {
		return err
	}
	logger.Info("Packing %s: %d files, %d folders, %d bytes (part size %d)",
		in, files, folders, total, cfg.Pack.PartSize)

	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("create %s: %w", out, err)
	}
	defer f.Close()

	if err := pack.Pack(ctx, f, root, cfg.Pack.PartSize); err != nil {
		return err
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", out, err)
	}

	logger.Info("Wrote %s", out)
	return nil
}

// runUnpack rebuilds a tree from a pack file into a content store.
//
// With -out the bytes land in a filesystem store rooted at that directory,
// laid out as the tree. Without it the configured content store receives
// them, which is mostly useful for s3 and badger backends.
func runUnpack(ctx context.Context, cfg *config.Config, in, out string) error {
	if in == "" {
		return fmt.Errorf("unpack requires -in FILE")
	}

	var store content.WritableContentStore
	var err error
	if out != "" {
		store, err = contentFs.NewFSContentStore(ctx, out)
	} else {
		store, err = config.CreateContentStore(ctx, &cfg.Content)
	}
	if err != nil {
		return fmt.Errorf("create content store: %w", err)
	}
	if closer, ok := store.(interface{ Close() error }); ok {
		defer closer.Close()
	}

	f, err := os.Open(in)
	if err != nil {
		return fmt.Errorf("open %s: %w", in, err)
	}
	defer f.Close()

	root, err := pack.Unpack(ctx, f, content.NewStoreWriter(store))
	if err != nil {
		return err
	}

	files, folders, err := root.Count(ctx)
	if err != nil {
		return err
	}
	total, err := root.ByteCount(ctx)
	if err != nil {
		return err
	}
	logger.Info("Unpacked %s: %d files, %d folders, %d bytes", root.Name(), files, folders, total)

	return nil
}

// runInspect prints a pack file's header summary without reading parts.
func runInspect(ctx context.Context, in string) error {
	if in == "" {
		return fmt.Errorf("inspect requires -in FILE")
	}

	f, err := os.Open(in)
	if err != nil {
		return fmt.Errorf("open %s: %w", in, err)
	}
	defer f.Close()

	r, err := pack.NewReader(f)
	if err != nil {
		return err
	}

	skeleton, err := vtree.FromMetadata(ctx, r.Skeleton())
	if err != nil {
		return err
	}

	files, folders, err := skeleton.Count(ctx)
	if err != nil {
		return err
	}
	total, err := skeleton.ByteCount(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("pack: %s\n", in)
	fmt.Printf("  root:      %s\n", skeleton.Name())
	fmt.Printf("  part size: %d bytes\n", r.PartSize())
	fmt.Printf("  files:     %d\n", files)
	fmt.Printf("  folders:   %d\n", folders)
	fmt.Printf("  bytes:     %d\n", total)

	return nil
}
