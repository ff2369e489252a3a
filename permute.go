package minicube

// Commit relabels slot occupancy after a face turn: the occupant of
// slots[3] moves to slots[0], and every other occupant moves one step
// forward. Positions are not touched; the geometry has already been
// rotated and snapped.
func Commit(s *Store, slots [4]int) error {
	for _, slot := range slots {
		if err := checkSlot(slot); err != nil {
			return err
		}
	}

	last := s.cubelets[slots[3]]
	s.cubelets[slots[3]] = s.cubelets[slots[2]]
	s.cubelets[slots[2]] = s.cubelets[slots[1]]
	s.cubelets[slots[1]] = s.cubelets[slots[0]]
	s.cubelets[slots[0]] = last
	return nil
}
