package storage

// orderedFile is the minimal view the merger needs of the file it is
// sorting: a comparable key (the timestamp) per slot, read and swapped
// through the page cache. dayFile implements this.
type orderedFile interface {
	key(i int) (uint32, error)
	swap(i, j int) error
}

// mergeInPlace merges a freshly appended suffix of length numNew, in any
// order, into the already-sorted prefix of the first (total-numNew) slots, using
// only f itself (via swap) and O(1) extra state. progress is called
// with the current scan index after each outer-loop iteration so the
// caller's page cache can evict settled low slots via Sync.
func mergeInPlace(f orderedFile, numNew, total int, progress func(int) error) error {
	if total <= 1 {
		return nil
	}

	arrayEnd := total - 1
	rightMinimumIndex := total - numNew

	rightMinimum, err := f.key(rightMinimumIndex)
	if err != nil {
		return err
	}

	// Short-circuit: already sorted at the join boundary and through the
	// rest of the suffix. An in-order run at the start of the suffix
	// simply extends the sorted prefix.
	prev, err := f.key(rightMinimumIndex - 1)
	if err != nil {
		return err
	}
	for rightMinimum >= prev {
		if rightMinimumIndex == arrayEnd {
			return nil
		}
		prev = rightMinimum
		rightMinimumIndex++
		if rightMinimum, err = f.key(rightMinimumIndex); err != nil {
			return err
		}
	}

	lastSwapIndex := -1
	index := 0

	for index < arrayEnd {
		for {
			v, err := f.key(index)
			if err != nil {
				return err
			}
			if v >= rightMinimum {
				break
			}
			index++
			if index > arrayEnd {
				break
			}
		}

		if index <= arrayEnd {
			v, err := f.key(index)
			if err != nil {
				return err
			}
			rm, err := f.key(rightMinimumIndex)
			if err != nil {
				return err
			}
			if v > rm {
				if err := f.swap(index, rightMinimumIndex); err != nil {
					return err
				}
				if lastSwapIndex == -1 {
					lastSwapIndex = index
				}
			}
		}

		index++

		if index >= rightMinimumIndex {
			rightMinimumIndex++
			if rightMinimumIndex > arrayEnd {
				break
			}
			previousMinimum := rightMinimum
			rightMinimum, err = f.key(rightMinimumIndex)
			if err != nil {
				return err
			}
			if rightMinimum < previousMinimum {
				lastSwapIndex = -1
			}
			index = lastSwapIndex + 1
			lastSwapIndex = -1
		}

		if err := progress(index); err != nil {
			return err
		}
	}

	return nil
}
