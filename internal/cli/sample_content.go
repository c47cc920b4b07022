package cli

import "prepquiz-service/internal/domain"

// sampleContent is served when neither Postgres nor a content file is configured.
func sampleContent() domain.Content {
	return domain.Content{
		Categories: []domain.Category{
			{
				ID:    "earthquake",
				Title: "Earthquake",
				Sets: []domain.QuestionSet{
					{
						ID:    "basics",
						Title: "Earthquake basics",
						Questions: []domain.RawQuestion{
							{
								"question": "What should you do when the ground starts shaking indoors?",
								"options":  []any{"Run outside", "Drop, cover and hold on", "Stand next to a window", "Take the elevator"},
								"answer":   "B",
								"hint":     "Protect your head and neck first.",
							},
							{
								"question":      "Which place is safest during shaking?",
								"options":       []any{"Under a sturdy table", "Near tall shelves", "On a balcony"},
								"correctAnswer": "Under a sturdy table",
							},
						},
					},
				},
			},
			{
				ID:    "flood",
				Title: "Flood",
				Sets: []domain.QuestionSet{
					{
						ID:    "basics",
						Title: "Flood basics",
						Questions: []domain.RawQuestion{
							{
								"question":    "How much moving water can knock an adult off their feet?",
								"options":     []any{"15 cm", "1 m", "2 m"},
								"answerIndex": 0,
							},
							{
								"question": "Where should you go if flood water rises around your house?",
								"options":  []any{"The basement", "The highest floor", "The garage"},
								"correct":  1,
							},
						},
					},
				},
			},
			{
				ID:    "fire",
				Title: "Fire",
				Sets: []domain.QuestionSet{
					{
						ID:    "home",
						Title: "Home fire safety",
						Questions: []domain.RawQuestion{
							{
								"question": "How do you check whether a closed door is hot?",
								"options":  []any{"With your palm", "With the back of your hand", "By opening it"},
								"answer":   "B",
							},
							{
								"question": "If your clothes catch fire you should",
								"options":  []any{"Run for water", "Stop, drop and roll", "Wave your arms"},
								"answer":   1,
							},
						},
					},
				},
			},
		},
	}
}
