package extract

// PlanBatches splits units into consecutive batches of poolCapacity units;
// only the last batch may be shorter. A capacity below one is treated as one.
func PlanBatches(units []ExtractionUnit, poolCapacity int) []Batch {
	if poolCapacity < 1 {
		poolCapacity = 1
	}
	if len(units) == 0 {
		return nil
	}

	batches := make([]Batch, 0, (len(units)+poolCapacity-1)/poolCapacity)
	for start := 0; start < len(units); start += poolCapacity {
		end := min(start+poolCapacity, len(units))
		batch := make([]ExtractionUnit, end-start)
		copy(batch, units[start:end])
		batches = append(batches, Batch{Index: len(batches), Units: batch})
	}
	return batches
}
