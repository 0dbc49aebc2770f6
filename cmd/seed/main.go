package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"time"

	"surveylens/internal/app"
	"surveylens/internal/config"
	"surveylens/internal/model"
	"surveylens/internal/service"
)

var improvements = []string{
	"Battery drains too fast when the camera is on",
	"Battery life is worse than my old phone",
	"Charging takes too long, needs faster charging",
	"The camera struggles in low light",
	"Night photos are blurry and noisy",
	"Front camera makes skin look too smooth",
	"Too expensive for what you get",
	"Price should be lower for the base model",
	"Software updates broke the keyboard",
	"Too much preinstalled bloatware",
	"The phone gets hot while gaming",
	"Speaker is quiet compared to competitors",
}

var reasons = []string{
	"Good reviews from friends",
	"The camera looked great in ads",
	"Loyal to the brand",
	"It was on sale",
	"I liked the design and colors",
	"Best battery on paper",
}

func main() {
	responses := flag.Int("responses", 40, "number of responses to generate")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	storage, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}
	defer storage.Close(context.Background())

	// Owner matches the host that logs in with HOST_USERNAME
	hostID := service.HostID(cfg.HostUsername)

	survey, err := service.NewSurveyService(storage.SurveyRepo).Create(ctx, hostID, &model.Survey{
		Title:       "Smartphone Launch Feedback",
		Description: "Understand user perception, satisfaction, and improvement areas for the new device.",
		Status:      model.SurveyStatusPublished,
		Questions: []model.Question{
			{
				Text:     "On a scale from 1 to 5, how satisfied are you with this smartphone overall?",
				Type:     model.QuestionTypeLinearScale,
				Required: true,
				Scale:    &model.ScaleOptions{Min: 1, Max: 5, MinLabel: "Not at all", MaxLabel: "Very"},
			},
			{
				Text:     "Which model did you purchase?",
				Type:     model.QuestionTypeSingleChoice,
				Required: true,
				Options:  []string{"Standard Model", "Pro / Plus Model", "Ultra / Max Model"},
			},
			{
				Text:    "Which features do you use every day?",
				Type:    model.QuestionTypeMultiChoice,
				Options: []string{"Display", "Battery", "Camera", "Speed", "Design"},
			},
			{
				Text: "What was the main reason you chose this phone?",
				Type: model.QuestionTypeShortText,
			},
			{
				Text: "What is one thing you would improve or change about this smartphone?",
				Type: model.QuestionTypeLongText,
			},
		},
	})
	if err != nil {
		log.Fatalf("Failed to create survey: %v", err)
	}

	responseSvc := service.NewResponseService(storage.SurveyRepo, storage.ResponseRepo)
	rng := rand.New(rand.NewSource(42))
	q := survey.Questions
	for i := 0; i < *responses; i++ {
		answers := []model.Answer{
			{QuestionID: q[0].ID, Value: model.ScaleOf(float64(1 + rng.Intn(5)))},
			{QuestionID: q[1].ID, Value: model.SelectionOf(q[1].Options[rng.Intn(len(q[1].Options))])},
			{QuestionID: q[2].ID, Value: model.SelectionsOf(pick(rng, q[2].Options)...)},
			{QuestionID: q[3].ID, Text: reasons[rng.Intn(len(reasons))]},
		}
		if rng.Intn(4) > 0 {
			answers = append(answers, model.Answer{QuestionID: q[4].ID, Text: improvements[rng.Intn(len(improvements))]})
		}
		if _, err := responseSvc.Submit(ctx, survey.ID, answers); err != nil {
			log.Fatalf("Failed to submit response %d: %v", i+1, err)
		}
	}

	fmt.Printf("Successfully created survey '%s' (%s) with %d responses for host '%s'\n", survey.Title, survey.ID, *responses, hostID)
}

// pick returns a random subset of options in their original order
func pick(rng *rand.Rand, options []string) []string {
	var out []string
	for _, o := range options {
		if rng.Intn(2) == 0 {
			out = append(out, o)
		}
	}
	return out
}
