package ecs

// Each2 iterates over entities that have both component A and B.
// It iterates over the smaller store and checks the larger one.
func Each2[A, B any](sa *PtrComponentStore[A], sb *PtrComponentStore[B], fn func(EntityID, *A, *B)) {
	if sa.Len() <= sb.Len() {
		for id, a := range sa.data {
			if b, ok := sb.data[id]; ok {
				fn(id, a, b)
			}
		}
	} else {
		for id, b := range sb.data {
			if a, ok := sa.data[id]; ok {
				fn(id, a, b)
			}
		}
	}
}

// Each3 iterates over entities that have components A, B, and C.
func Each3[A, B, C any](sa *PtrComponentStore[A], sb *PtrComponentStore[B], sc *PtrComponentStore[C], fn func(EntityID, *A, *B, *C)) {
	smallest := sa.Len()
	which := 0
	if sb.Len() < smallest {
		smallest = sb.Len()
		which = 1
	}
	if sc.Len() < smallest {
		which = 2
	}

	switch which {
	case 0:
		for id, a := range sa.data {
			if b, ok := sb.data[id]; ok {
				if c, ok := sc.data[id]; ok {
					fn(id, a, b, c)
				}
			}
		}
	case 1:
		for id, b := range sb.data {
			if a, ok := sa.data[id]; ok {
				if c, ok := sc.data[id]; ok {
					fn(id, a, b, c)
				}
			}
		}
	case 2:
		for id, c := range sc.data {
			if a, ok := sa.data[id]; ok {
				if b, ok := sb.data[id]; ok {
					fn(id, a, b, c)
				}
			}
		}
	}
}

// Each4 iterates over entities that have components A, B, C, and D.
// No caller in this repository uses it; the monster AI system joins its
// components with Each3.
func Each4[A, B, C, D any](sa *PtrComponentStore[A], sb *PtrComponentStore[B], sc *PtrComponentStore[C], sd *PtrComponentStore[D], fn func(EntityID, *A, *B, *C, *D)) {
	lens := [4]int{sa.Len(), sb.Len(), sc.Len(), sd.Len()}
	which := 0
	smallest := lens[0]
	for i := 1; i < 4; i++ {
		if lens[i] < smallest {
			smallest = lens[i]
			which = i
		}
	}

	switch which {
	case 0:
		for id, a := range sa.data {
			if b, ok := sb.data[id]; ok {
				if c, ok := sc.data[id]; ok {
					if d, ok := sd.data[id]; ok {
						fn(id, a, b, c, d)
					}
				}
			}
		}
	case 1:
		for id, b := range sb.data {
			if a, ok := sa.data[id]; ok {
				if c, ok := sc.data[id]; ok {
					if d, ok := sd.data[id]; ok {
						fn(id, a, b, c, d)
					}
				}
			}
		}
	case 2:
		for id, c := range sc.data {
			if a, ok := sa.data[id]; ok {
				if b, ok := sb.data[id]; ok {
					if d, ok := sd.data[id]; ok {
						fn(id, a, b, c, d)
					}
				}
			}
		}
	case 3:
		for id, d := range sd.data {
			if a, ok := sa.data[id]; ok {
				if b, ok := sb.data[id]; ok {
					if c, ok := sc.data[id]; ok {
						fn(id, a, b, c, d)
					}
				}
			}
		}
	}
}
