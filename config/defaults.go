package config

// Default returns the built-in solar system.
func Default() Settings {
	return Settings{
		Window: WindowSettings{
			Width:  800,
			Height: 600,
			Title:  "Solar System",
			VSync:  true,
		},
		Camera: CameraSettings{
			Distance: 30,
			FovY:     45,
			Near:     0.1,
			Far:      1000,
		},
		Simulation: SimulationSettings{
			SpeedScale: 1,
			MinSpeed:   0,
			MaxSpeed:   10,
			SpeedStep:  0.1,
			ShowNames:  true,
		},
		Bodies: []BodySettings{
			{
				Name: "Sun", Radius: 2.5, Sectors: 36, Stacks: 18,
				SpinAxis: [3]float64{0, 1, 0}, SpinRate: 0.2,
				Color: [3]float32{1, 0.85, 0.2}, Texture: "textures/sun.jpg", LabelAbove: true,
			},
			{
				Name: "Mercury", Radius: 0.3, Sectors: 24, Stacks: 12,
				Focus: "Sun", Distance: 4, StartAngle: 30, Speed: 1.6,
				Color: [3]float32{0.6, 0.6, 0.6}, LabelAbove: true,
			},
			{
				Name: "Venus", Radius: 0.5, Sectors: 24, Stacks: 12,
				Focus: "Sun", Distance: 6, StartAngle: 120, Speed: 1.2,
				Color: [3]float32{0.9, 0.7, 0.4}, LabelAbove: false,
			},
			{
				Name: "Earth", Radius: 0.6, Sectors: 36, Stacks: 18,
				Focus: "Sun", Distance: 9, StartAngle: 0, Speed: 1,
				Color: [3]float32{0.2, 0.4, 1}, Texture: "textures/earth.jpg", LabelAbove: true,
			},
			{
				Name: "Moon", Radius: 0.2, Sectors: 18, Stacks: 9,
				Focus: "Earth", Distance: 1.3, StartAngle: 0, Speed: 5,
				Color: [3]float32{0.8, 0.8, 0.8}, LabelAbove: false,
			},
			{
				Name: "Mars", Radius: 0.45, Sectors: 24, Stacks: 12,
				Focus: "Sun", Distance: 12, StartAngle: 200, Speed: 0.8,
				Color: [3]float32{0.9, 0.35, 0.2}, LabelAbove: true,
			},
			{
				Name: "Jupiter", Radius: 1.2, Sectors: 36, Stacks: 18,
				Focus: "Sun", Distance: 17, StartAngle: 300, Speed: 0.4,
				Color: [3]float32{0.85, 0.7, 0.55}, LabelAbove: true,
			},
			{
				Name: "Europa", Radius: 0.15, Sectors: 12, Stacks: 6,
				Focus: "Jupiter", Distance: 2, StartAngle: 90, Speed: 3,
				Color: [3]float32{0.95, 0.95, 0.85}, LabelAbove: false,
			},
		},
	}
}
