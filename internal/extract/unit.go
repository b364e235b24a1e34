package extract

import "fmt"

// Content is the original source text of a map entry, or an explicit marker
// that the map did not inline it.
type Content struct {
	text      string
	available bool
}

// Available wraps inlined source text.
func Available(text string) Content {
	return Content{text: text, available: true}
}

// Unavailable marks a source whose sourcesContent entry is null or missing.
func Unavailable() Content {
	return Content{}
}

// Text returns the source text and whether it was present in the map.
func (c Content) Text() (string, bool) {
	return c.text, c.available
}

func (c Content) IsAvailable() bool {
	return c.available
}

func (c Content) String() string {
	if !c.available {
		return "<unavailable>"
	}
	return fmt.Sprintf("%d bytes", len(c.text))
}

// ExtractionUnit is one file to materialize. Seq is the unit's position in
// the loader's source order.
type ExtractionUnit struct {
	Seq             int
	Source          string
	DestinationPath string
	Content         Content
}

// Batch is an ordered group of units dispatched as one wave.
type Batch struct {
	Index int
	Units []ExtractionUnit
}

// Len returns the number of units in the batch
func (b Batch) Len() int {
	return len(b.Units)
}

// Completion is the single report a worker sends for a unit it processed.
type Completion struct {
	Unit    ExtractionUnit
	Err     error
	Bytes   int64
	Skipped bool
}

// Succeeded reports whether the unit materialized (or was skipped on purpose).
func (c Completion) Succeeded() bool {
	return c.Err == nil
}
