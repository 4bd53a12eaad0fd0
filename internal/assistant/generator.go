package assistant

import (
	"context"
	"fmt"
	"strings"
)

// Generator produces event copy. Implementations may call out to a model;
// MockGenerator answers locally.
type Generator interface {
	Description(ctx context.Context, title, details string) (string, error)
	PosterPrompt(ctx context.Context, title, category string) (string, error)
	EmailTemplate(ctx context.Context, title, date, location string) (string, error)
}

var cannedDescriptions = map[string]string{
	"AI & Machine Learning Workshop": "Join us for an exciting workshop exploring the latest advancements in Artificial Intelligence and Machine Learning. " +
		"Learn from industry experts about neural networks, deep learning, and real-world applications. " +
		"Perfect for students interested in tech and data science.",
	"Annual Sports Day": "Get ready for our annual sports extravaganza! Compete in various athletic events, cheer for your teams, " +
		"and celebrate the spirit of sportsmanship. All students welcome - whether you're an athlete or a supporter.",
	"Cultural Festival 2024": "Experience the vibrant diversity of our campus culture! Enjoy traditional music, dance performances, " +
		"authentic cuisine from around the world, and art exhibitions. A celebration of unity in diversity.",
}

var posterStyles = map[string]string{
	"tech":     "modern, futuristic design with circuit patterns, blue and neon colors, tech-forward aesthetic",
	"sports":   "energetic, dynamic composition with athletes in action, vibrant colors, movement and power",
	"cultural": "colorful, diverse, celebration theme with traditional patterns and bright colors",
}

const defaultPosterStyle = "vibrant and engaging"

const emailTemplate = `Subject: Don't Miss Out! %[1]s is Coming

Dear Campus Community,

We're excited to announce %[1]s!

📅 Date: %[2]s
📍 Location: %[3]s

This is an event you won't want to miss. Whether you're passionate about the topic or just looking for a great time with your friends, we've got something special planned.

Register now to secure your spot!

Best regards,
EventEase Team
`

// MockGenerator returns canned copy for known titles and a template otherwise.
type MockGenerator struct{}

func (MockGenerator) Description(_ context.Context, title, details string) (string, error) {
	title = strings.TrimSpace(title)
	if canned, ok := cannedDescriptions[title]; ok {
		return canned, nil
	}
	details = strings.TrimSpace(details)
	if title == "" {
		if details == "" {
			return "Join us for an unforgettable campus event.", nil
		}
		return "Join us for an unforgettable campus event. " + details, nil
	}
	return strings.TrimSpace(fmt.Sprintf("Join us for an unforgettable experience at %s. %s", title, details)), nil
}

func (MockGenerator) PosterPrompt(_ context.Context, title, category string) (string, error) {
	style, ok := posterStyles[strings.ToLower(strings.TrimSpace(category))]
	if !ok {
		style = defaultPosterStyle
	}
	return fmt.Sprintf("Professional event poster for \"%s\". %s. High quality, modern design, clear typography, suitable for college campus promotion.",
		strings.TrimSpace(title), style), nil
}

func (MockGenerator) EmailTemplate(_ context.Context, title, date, location string) (string, error) {
	return fmt.Sprintf(emailTemplate, strings.TrimSpace(title), date, location), nil
}
