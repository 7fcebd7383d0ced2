// Command meshinfo prints sphere mesh statistics and, given a settings file,
// the body positions after a number of headless frames.
package main

import (
	"flag"
	"fmt"
	"math"
	"os"

	"solarsystem/config"
	"solarsystem/core"
	"solarsystem/simulation"
)

func main() {
	var (
		radius     = flag.Float64("radius", 1, "Sphere radius")
		sectors    = flag.Int("sectors", 36, "Sector (longitude) count")
		stacks     = flag.Int("stacks", 18, "Stack (latitude) count")
		configPath = flag.String("config", "", "Settings file to simulate instead of a single mesh")
		frames     = flag.Int("frames", 0, "Frames to step the settings scene")
		speed      = flag.Float64("speed", 1, "Speed scale used while stepping")
	)
	flag.Parse()

	if *configPath == "" {
		if err := describeMesh(float32(*radius), *sectors, *stacks); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}
	if err := stepScene(*configPath, *frames, *speed); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func describeMesh(radius float32, sectors, stacks int) error {
	m, err := core.GenerateSphere(radius, sectors, stacks)
	if err != nil {
		return err
	}

	fmt.Println("=== Sphere Mesh ===")
	fmt.Printf("Radius: %g  Sectors: %d  Stacks: %d\n", radius, sectors, stacks)
	fmt.Printf("Vertices: %d\n", m.VertexCount())
	fmt.Printf("Triangles: %d (expected %d)\n", m.TriangleCount(), core.ExpectedTriangleCount(sectors, stacks))
	fmt.Printf("Line indices: %d\n", len(m.LineIndices))

	var maxRadiusErr, maxNormalErr float64
	for i, v := range m.Vertices {
		maxRadiusErr = math.Max(maxRadiusErr, math.Abs(float64(v.Len()-radius)))
		maxNormalErr = math.Max(maxNormalErr, math.Abs(float64(m.Normals[i].Len()-1)))
	}
	fmt.Printf("Max |v|-r error: %.2e\n", maxRadiusErr)
	fmt.Printf("Max |n|-1 error: %.2e\n", maxNormalErr)

	if _, err := m.Indices16(); err != nil {
		fmt.Println("16-bit indices: no,", err)
	} else {
		fmt.Println("16-bit indices: yes")
	}
	return nil
}

func stepScene(path string, frames int, speed float64) error {
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	sys, err := simulation.Build(cfg)
	if err != nil {
		return err
	}
	for i := 0; i < frames; i++ {
		sys.Step(speed)
	}

	fmt.Printf("=== %d bodies after %d frames at speed %g ===\n", sys.Len(), frames, speed)
	for _, id := range sys.Order() {
		b, err := sys.Body(id)
		if err != nil {
			return err
		}
		p := b.Transform.Position
		fmt.Printf("%-10s pos=(%8.3f, %8.3f, %8.3f)", b.Name, p[0], p[1], p[2])
		if b.Orbit != nil {
			fmt.Printf("  phase=%6.2f°", b.Orbit.Phase*180/math.Pi)
		}
		fmt.Println()
	}
	return nil
}
