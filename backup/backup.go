package backup

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"filebackup/config"
	"filebackup/copier"
	"filebackup/logger"
	"filebackup/metadata"
	"filebackup/organizer"
	"filebackup/output"
	"filebackup/scanner"
	"filebackup/systeminfo"
	"filebackup/utils"

	"github.com/dustin/go-humanize"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/time/rate"
)

const (
	FilesToCopyName  = "FilesToCopy.txt"
	InaccessibleName = "InaccessibleFolders.txt"
)

// Run scans cfg.SourceNode and copies every file whose extension is listed
// in extensions.txt into cfg.DestinationNode. Per-file failures are logged
// and counted in metrics; only configuration, scan and report-writing
// failures are returned.
func Run(ctx context.Context, cfg *config.Config, metrics *output.Metrics) error {
	excludes, err := utils.LoadExcludeList(cfg.AppDir)
	if err != nil {
		return fmt.Errorf("load exclude list: %w", err)
	}
	extensions, err := utils.LoadExtensions(cfg.AppDir)
	if err != nil {
		return fmt.Errorf("load extensions list: %w", err)
	}
	if len(extensions) == 0 {
		logger.Warnf("No extensions configured in %s; nothing will be copied", filepath.Join(cfg.AppDir, utils.ExtensionsFileName))
	}
	excludes = append(excludes, destinationExclusion(cfg)...)

	sc := scanner.New(
		scanner.WithPattern(cfg.SearchPattern),
		scanner.WithExclude(excludes),
	)
	res, err := sc.Scan(ctx, cfg.SourceNode)
	if err != nil {
		return fmt.Errorf("scan %s: %w", cfg.SourceNode, err)
	}

	selected := res.Select(func(f scanner.FileRecord) bool {
		return extensions.Contains(f.Extension)
	})

	metrics.TotalFiles = len(res.Files)
	metrics.DirectoryCount = res.DirectoryCount
	metrics.Folders = len(res.Directories)
	metrics.Inaccessible = len(res.Inaccessible)
	metrics.SelectedFiles = len(selected)
	for _, f := range selected {
		metrics.SelectedBytes += f.Size
	}

	logger.Infof("Total File Count: %d", metrics.TotalFiles)
	logger.Infof("Directory Count: %d", metrics.DirectoryCount)
	logger.Infof("Folder Count: %d", metrics.Folders)
	logger.Infof("Inaccessible Folder Count: %d", metrics.Inaccessible)
	logger.Infof("Copy File Count: %d (%s)", metrics.SelectedFiles, humanize.Bytes(uint64(metrics.SelectedBytes)))

	if err := writeReports(cfg.DestinationNode, res, selected); err != nil {
		return err
	}
	checkFreeSpace(cfg.DestinationNode, metrics.SelectedBytes)

	return copyFiles(ctx, cfg, selected, metrics)
}

// destinationExclusion keeps a destination nested inside the source from
// being scanned and backed up again on later runs. A destination equal to
// the source is left alone; excluding it would exclude the whole scan.
func destinationExclusion(cfg *config.Config) []string {
	if utils.SamePath(cfg.DestinationNode, cfg.SourceNode) {
		logger.Warnf("Destination %s is the source root; earlier copies will be rescanned as duplicates", cfg.DestinationNode)
		return nil
	}
	if !utils.IsPathWithin(cfg.DestinationNode, []string{cfg.SourceNode}) {
		return nil
	}
	abs, err := filepath.Abs(cfg.DestinationNode)
	if err != nil {
		return nil
	}
	logger.Warnf("Destination %s lies inside the source; excluding it from the scan", abs)
	return []string{abs}
}

func writeReports(destRoot string, res *scanner.Result, selected []scanner.FileRecord) error {
	if err := os.MkdirAll(destRoot, 0755); err != nil {
		return fmt.Errorf("create destination %s: %w", destRoot, err)
	}

	paths := make([]string, len(selected))
	for i, f := range selected {
		paths[i] = f.Path
	}
	if err := output.WriteLines(filepath.Join(destRoot, FilesToCopyName), paths); err != nil {
		return fmt.Errorf("write %s: %w", FilesToCopyName, err)
	}

	inaccessible := make([]string, len(res.Inaccessible))
	for i, d := range res.Inaccessible {
		inaccessible[i] = d.Path
	}
	if err := output.WriteLines(filepath.Join(destRoot, InaccessibleName), inaccessible); err != nil {
		return fmt.Errorf("write %s: %w", InaccessibleName, err)
	}
	return nil
}

func checkFreeSpace(destRoot string, needed int64) {
	space, err := systeminfo.GetDiskSpace(destRoot)
	if err != nil {
		logger.Debugf("Could not determine free space on %s: %v", destRoot, err)
		return
	}
	if !space.Fits(needed) {
		logger.Warnf("Destination %s has %s free but up to %s may be copied",
			space.Path, humanize.Bytes(space.Free), humanize.Bytes(uint64(needed)))
	}
}

func copyFiles(ctx context.Context, cfg *config.Config, files []scanner.FileRecord, metrics *output.Metrics) error {
	extractor := metadata.Extractor{MaxBytes: cfg.MetadataMaxBytes}
	builder := organizer.Builder{DateTaken: extractor.DateTaken}
	errorLog := cfg.ErrorLogPath()

	var limiter *rate.Limiter
	if cfg.MaxIOPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.MaxIOPerSecond), cfg.MaxIOPerSecond)
	}

	bar := progressbar.NewOptions(len(files),
		progressbar.OptionSetDescription("Copying files"),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionSetVisibility(progressVisible()),
		progressbar.OptionFullWidth(),
	)
	defer bar.Finish()

	for _, f := range files {
		select {
		case <-ctx.Done():
			metrics.Interrupted = true
			return ctx.Err()
		default:
		}
		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				metrics.Interrupted = true
				return err
			}
		}

		dest := builder.BuildPath(f, cfg.DestinationNode, bool(cfg.UseMetadata), cfg.Mode)
		outcome, err := copier.Copy(f.Path, dest, errorLog)
		switch outcome {
		case copier.Copied:
			metrics.FilesCopied++
			logger.Infof("File %s %s %s", outcome.Label(), f.Path, dest)
		case copier.Duplicate:
			metrics.Duplicates++
			logger.Infof("File %s %s %s", outcome.Label(), f.Path, dest)
		default:
			metrics.Failures++
			logger.Errorf("File %s %s: %v", outcome.Label(), f.Path, err)
		}
		_ = bar.Add(1)
	}
	return nil
}

func progressVisible() bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv("FILEBACKUP_DISABLE_PROGRESS")))
	return value != "1" && value != "true" && value != "yes" && value != "on"
}
