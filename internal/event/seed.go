package event

// SeedEvents is the starting catalogue loaded at startup.
func SeedEvents() []Event {
	return []Event{
		{
			ID:           "1",
			Title:        "ELVION Hackathon",
			Category:     CategoryTech,
			Date:         "2026-02-11",
			Time:         "09:00",
			Location:     "RMDSTIC, Warje",
			Description:  "Learn about the latest trends in AI and ML",
			Attendees:    45,
			Capacity:     100,
			Image:        "/hackathon.png",
			PosterPrompt: "modern, futuristic design with circuit patterns",
			Status:       StatusPublished,
		},
		{
			ID:           "2",
			Title:        "Sinhgad Olumpus 2026",
			Category:     CategorySports,
			Date:         "2026-02-25",
			Time:         "09:00",
			Location:     "Sinhagad college Ground, Vadgaon",
			Description:  "College-wide sports competition and activities",
			Attendees:    120,
			Capacity:     200,
			Image:        "/sports.png",
			PosterPrompt: "energetic, dynamic composition with athletes",
			Status:       StatusPublished,
		},
		{
			ID:           "3",
			Title:        "Sinhgad spring fest 2026",
			Category:     CategoryCultural,
			Date:         "2024-03-10",
			Time:         "18:00",
			Location:     "SCOE Cultural hall",
			Description:  "Celebrate diverse cultures with music, dance, and food",
			Attendees:    200,
			Capacity:     300,
			Image:        "/fest.png",
			PosterPrompt: "colorful, diverse, celebration theme",
			Status:       StatusPublished,
		},
	}
}
