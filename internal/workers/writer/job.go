package writer

import (
	"fmt"

	"github.com/JSH-Team/unpack/internal/extract"
	"github.com/JSH-Team/unpack/internal/storage"
	"github.com/JSH-Team/unpack/internal/utils/logger"
)

// processJob writes a single unit and builds its completion report.
// A panic while writing is turned into a failed completion.
func (p *WriterWorkerPool) processJob(workerID int, job WriteJob) (completion extract.Completion) {
	completion.Unit = job.Unit

	defer func() {
		if r := recover(); r != nil {
			completion.Err = fmt.Errorf("writer %d panicked on %s: %v", workerID, job.Unit.DestinationPath, r)
		}
	}()

	n, skipped, err := storage.SaveSourceFile(p.fs, job.Unit, p.missingContent)
	if err != nil {
		completion.Err = err
		return completion
	}

	completion.Bytes = n
	completion.Skipped = skipped
	if skipped {
		logger.Debug("Skipped %s: content unavailable in sourcemap", job.Unit.Source)
	} else {
		logger.Debug("Saved source file: %s", job.Unit.DestinationPath)
	}
	return completion
}
