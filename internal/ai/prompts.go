package ai

import (
	"fmt"
	"strings"

	"talentdesk/api/internal/store"
)

const jsonOnly = "Return only valid JSON. Do not include explanations, markdown, or text before or after the JSON."

func parseResumePrompt(text string) string {
	var b strings.Builder
	b.WriteString("You are a recruitment assistant. Extract a candidate profile from the resume below.\n\n")
	b.WriteString("Return a JSON object in this format:\n")
	b.WriteString(`{"name":string,"email":string,"phone":string,"role":string,"skills":[string],"experience":string,"summary":string}` + "\n\n")
	b.WriteString("Base everything only on the resume text. Do not invent data.\n")
	b.WriteString(jsonOnly + "\n\nResume:\n")
	b.WriteString(text)
	return b.String()
}

func screenPrompt(cand store.Candidate, req store.JobRequest) string {
	var b strings.Builder
	b.WriteString("You are an expert recruiter. Evaluate how well the candidate matches the job request.\n\n")
	fmt.Fprintf(&b, "Job request: %s at %s (%s)\n", req.Title, req.Client, req.Location)
	fmt.Fprintf(&b, "Required skills: %s\n", strings.Join(req.Skills, ", "))
	fmt.Fprintf(&b, "Description: %s\n\n", req.Description)
	fmt.Fprintf(&b, "Candidate: %s, role %s, experience %s\n", cand.Name, cand.Role, cand.Experience)
	fmt.Fprintf(&b, "Candidate skills: %s\n", strings.Join(cand.Skills, ", "))
	if cand.ResumeSummary != "" {
		fmt.Fprintf(&b, "Resume summary: %s\n", cand.ResumeSummary)
	}
	b.WriteString("\nReturn a JSON object in this format:\n")
	b.WriteString(`{"match_score":number,"strengths":[string],"gaps":[string],"recommendation":string,"summary":string}` + "\n")
	b.WriteString("match_score is 0-100. Be concise and professional.\n")
	b.WriteString(jsonOnly)
	return b.String()
}

func marketPrompt(req store.JobRequest) string {
	var b strings.Builder
	b.WriteString("You are a recruitment market analyst. Analyze the hiring market for this position.\n\n")
	fmt.Fprintf(&b, "Position: %s in %s, type %s\n", req.Title, req.Location, req.Type)
	fmt.Fprintf(&b, "Skills: %s\n", strings.Join(req.Skills, ", "))
	fmt.Fprintf(&b, "Budgeted salary range: %d - %d\n\n", req.SalaryMin, req.SalaryMax)
	b.WriteString("Return a JSON object in this format:\n")
	b.WriteString(`{"salary_low":number,"salary_median":number,"salary_high":number,"demand":string,"supply":string,"commentary":string}` + "\n")
	b.WriteString(jsonOnly)
	return b.String()
}

func questionsPrompt(req store.JobRequest) string {
	var b strings.Builder
	b.WriteString("You are a recruiter preparing a screening interview.\n\n")
	fmt.Fprintf(&b, "Position: %s at %s\n", req.Title, req.Client)
	fmt.Fprintf(&b, "Skills: %s\n", strings.Join(req.Skills, ", "))
	fmt.Fprintf(&b, "Description: %s\n\n", req.Description)
	b.WriteString("Generate 8 interview questions covering technical depth, experience, and culture fit.\n")
	b.WriteString("Return a JSON array in this format:\n")
	b.WriteString(`[{"question":string,"focus":string}]` + "\n")
	b.WriteString(jsonOnly)
	return b.String()
}

func assistPrompt(history []store.Message, message string) string {
	var b strings.Builder
	b.WriteString("You are TalentDesk's recruitment assistant. Answer briefly and helpfully.\n\n")
	if len(history) > 0 {
		b.WriteString("Conversation so far:\n")
		for _, msg := range history {
			fmt.Fprintf(&b, "%s: %s\n", msg.Author, msg.Body)
		}
		b.WriteString("\n")
	}
	b.WriteString("User: ")
	b.WriteString(message)
	return b.String()
}
