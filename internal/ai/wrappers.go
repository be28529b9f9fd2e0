package ai

import (
	"context"
	"encoding/json"
	"log"
	"strings"

	"talentdesk/api/internal/store"
)

// ResumeProfile is the structured result of parsing raw resume text.
type ResumeProfile struct {
	Name       string   `json:"name"`
	Email      string   `json:"email"`
	Phone      string   `json:"phone"`
	Role       string   `json:"role"`
	Skills     []string `json:"skills"`
	Experience string   `json:"experience"`
	Summary    string   `json:"summary"`
}

// Screening is a candidate-versus-request evaluation.
type Screening struct {
	MatchScore     int      `json:"match_score"`
	Strengths      []string `json:"strengths"`
	Gaps           []string `json:"gaps"`
	Recommendation string   `json:"recommendation"`
	Summary        string   `json:"summary"`
}

// MarketReport is salary and supply commentary for a request.
type MarketReport struct {
	SalaryLow    int    `json:"salary_low"`
	SalaryMedian int    `json:"salary_median"`
	SalaryHigh   int    `json:"salary_high"`
	Demand       string `json:"demand"`
	Supply       string `json:"supply"`
	Commentary   string `json:"commentary"`
}

// InterviewQuestion is one generated question with its focus area.
type InterviewQuestion struct {
	Question string `json:"question"`
	Focus    string `json:"focus"`
}

// ParseResume extracts a candidate profile from resume text. A reply that
// fails to decode yields an empty profile carrying the raw summary, never
// an error.
func (s *Service) ParseResume(ctx context.Context, text string) (ResumeProfile, error) {
	raw, err := s.generate(ctx, ModelFlash, CategoryFlash, parseResumePrompt(text))
	if err != nil {
		return ResumeProfile{}, err
	}
	var profile ResumeProfile
	if err := json.Unmarshal([]byte(stripFences(raw)), &profile); err != nil {
		log.Printf("ai: decode resume profile: %v", err)
		return ResumeProfile{Role: "Unspecified", Summary: strings.TrimSpace(raw)}, nil
	}
	return profile, nil
}

// ScreenCandidate evaluates a candidate against a request. A reply that
// fails to decode yields a neutral screening rather than an error.
func (s *Service) ScreenCandidate(ctx context.Context, cand store.Candidate, req store.JobRequest) (Screening, error) {
	raw, err := s.generate(ctx, ModelPro, CategoryPro, screenPrompt(cand, req))
	if err != nil {
		return Screening{}, err
	}
	var result Screening
	if err := json.Unmarshal([]byte(stripFences(raw)), &result); err != nil {
		log.Printf("ai: decode screening: %v", err)
		return Screening{MatchScore: 50, Recommendation: "Review manually", Summary: strings.TrimSpace(raw)}, nil
	}
	return result, nil
}

// MarketAnalysis produces salary banding and supply commentary for a request.
func (s *Service) MarketAnalysis(ctx context.Context, req store.JobRequest) (MarketReport, error) {
	raw, err := s.generate(ctx, ModelPro, CategoryPro, marketPrompt(req))
	if err != nil {
		return MarketReport{}, err
	}
	var report MarketReport
	if err := json.Unmarshal([]byte(stripFences(raw)), &report); err != nil {
		log.Printf("ai: decode market report: %v", err)
		return MarketReport{Commentary: strings.TrimSpace(raw)}, nil
	}
	return report, nil
}

// InterviewQuestions generates screening questions for a request.
func (s *Service) InterviewQuestions(ctx context.Context, req store.JobRequest) ([]InterviewQuestion, error) {
	raw, err := s.generate(ctx, ModelFlash, CategoryFlash, questionsPrompt(req))
	if err != nil {
		return nil, err
	}
	var questions []InterviewQuestion
	if err := json.Unmarshal([]byte(stripFences(raw)), &questions); err != nil {
		log.Printf("ai: decode interview questions: %v", err)
		return []InterviewQuestion{}, nil
	}
	return questions, nil
}

// Assist answers a free-text message in the context of a conversation
// history. The reply is plain text, no JSON envelope.
func (s *Service) Assist(ctx context.Context, history []store.Message, message string) (string, error) {
	reply, err := s.generate(ctx, ModelFlash, CategoryFlash, assistPrompt(history, message))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(reply), nil
}

// stripFences removes a wrapping ```json ... ``` block from a model reply.
func stripFences(input string) string {
	clean := strings.TrimSpace(input)
	if strings.HasPrefix(clean, "```json") {
		clean = strings.TrimPrefix(clean, "```json")
	} else if strings.HasPrefix(clean, "```") {
		clean = strings.TrimPrefix(clean, "```")
	}
	clean = strings.TrimLeft(clean, "\r\n")
	clean = strings.TrimSuffix(clean, "```")
	return strings.TrimSpace(clean)
}
