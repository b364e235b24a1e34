package progress

import (
	"bytes"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/JSH-Team/unpack/internal/utils/logger"
)

func TestCounter_Concurrent(t *testing.T) {
	var c Counter
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Advance()
		}()
	}
	wg.Wait()
	c.Finish()

	if c.Count() != 50 {
		t.Fatalf("Count = %d, want 50", c.Count())
	}
	if !c.Finished() {
		t.Fatal("Finished = false")
	}
}

func TestLogSink_ReportsCompletion(t *testing.T) {
	var buf bytes.Buffer
	logger.SetOutput(&buf)
	defer logger.SetOutput(os.Stderr)

	sink := NewLogSink(3)
	for i := 0; i < 3; i++ {
		sink.Advance()
	}
	sink.Finish()

	if !strings.Contains(buf.String(), "Extracted 3/3 files") {
		t.Fatalf("missing final progress line in %q", buf.String())
	}
}

func TestBar_WritesToWriter(t *testing.T) {
	var buf bytes.Buffer
	sink := NewBar(2, &buf)
	sink.Advance()
	sink.Advance()
	sink.Finish()

	if !strings.Contains(buf.String(), "Unpacking") {
		t.Fatalf("bar output missing description: %q", buf.String())
	}
}
