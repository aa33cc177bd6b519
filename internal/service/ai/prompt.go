package ai

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sridharsri/consultancy/backend/internal/model/doctor"
)

// doctorKeywords flag a question as being about the doctor directory, in
// which case the matching directory entries are inlined into the system
// prompt.
var doctorKeywords = []string{"doctor", "dr.", "specialist", "availability", "schedule", "appointment"}

const generalPrompt = "You are a helpful healthcare assistant. Provide professional and caring responses. " +
	"For medical advice, always recommend consulting with a healthcare professional directly."

const clarifyPrompt = "You are a helpful healthcare assistant. The user is asking about doctors but didn't specify which one. " +
	"Ask for clarification or provide general information about our doctors."

// BuildSystemPrompt assembles the system prompt for a question. Doctor
// questions get the referenced directory entries as context; doctor
// questions without a recognisable reference get the clarification prompt.
func BuildSystemPrompt(question string, doctors doctor.Store) string {
	if doctors == nil || !isDoctorQuery(question) {
		return generalPrompt
	}

	refs := referencedDoctors(question, doctors)
	if len(refs) == 0 {
		return clarifyPrompt
	}

	var builder strings.Builder
	builder.WriteString("You are a helpful healthcare assistant. Use the following doctor information to answer the question:\n\n")
	for _, d := range refs {
		builder.WriteString(describeDoctor(d))
		builder.WriteString("\n")
	}
	builder.WriteString("\nProvide a concise response based on the doctor information. For medical advice, recommend consulting the doctor directly.")
	return builder.String()
}

func isDoctorQuery(question string) bool {
	normalized := strings.ToLower(question)
	for _, keyword := range doctorKeywords {
		if strings.Contains(normalized, keyword) {
			return true
		}
	}
	return false
}

// referencedDoctors returns directory entries whose name or identifier
// appears in the question.
func referencedDoctors(question string, doctors doctor.Store) []doctor.Doctor {
	normalized := strings.ToLower(question)
	var refs []doctor.Doctor
	for _, d := range doctors.List() {
		if strings.Contains(normalized, strings.ToLower(d.Name)) || strings.Contains(normalized, strings.ToLower(d.ID)) {
			refs = append(refs, d)
		}
	}
	return refs
}

func describeDoctor(d doctor.Doctor) string {
	availability := "Not specified"
	if len(d.Availability) > 0 {
		days := make([]string, 0, len(d.Availability))
		for day := range d.Availability {
			days = append(days, day)
		}
		sort.Strings(days)
		parts := make([]string, 0, len(days))
		for _, day := range days {
			parts = append(parts, fmt.Sprintf("%s %s", day, d.Availability[day]))
		}
		availability = strings.Join(parts, ", ")
	}
	return fmt.Sprintf("Doctor %s (%s): Specializes in %s at %s. Availability: %s", d.Name, d.ID, d.Speciality, d.Hospital, availability)
}
