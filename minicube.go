// Package minicube models a 2x2x2 Rubik's-style puzzle: eight cubelets on
// the corners of a unit cube, turned four at a time about a face axis.
//
// # Features
//
//   - Fixed pool of eight cubelets with shuffled colours and tags A0..A7
//   - Static face table mapping each face to its slots and signed axis
//   - Quarter turns about the face centroid with lattice snapping
//   - Slot permutation kept in step with the geometry
//   - Tick-driven turn state machine with optional visual interpolation
//
// # Quick Start
//
//	m, err := minicube.NewMachine(minicube.WithSeed(42))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	m.OnTurn(func(e minicube.TurnEvent) {
//	    fmt.Println("turned", e.Face)
//	})
//
//	// Once per frame:
//	m.Submit(minicube.FaceTop) // ignored while a turn is rotating
//	m.Tick()
//
//	for _, c := range m.Cubelets() {
//	    draw(c.Transform, c.Color.RGB())
//	}
//
// # Headless use
//
//	m.Apply(minicube.FaceTop, minicube.FaceRight)
//	fmt.Print(m.Store())
package minicube
