// Package fallback provides the last resort of the answer cascade:
// keyword-triggered static guidance messages, used only when no earlier
// layer produced a valid answer.
package fallback

import "strings"

// #region responder

// Confidence is the fixed confidence attached to every fallback answer.
const Confidence = 0.50

// Method is the provenance method string for fallback answers.
const Method = "contextual_fallback"

// topic is one keyword-triggered response. Triggers are matched as
// substrings of the lowercased question; first hit wins.
type topic struct {
	name     string
	triggers []string
	response string
}

// Responder maps a question to a static contextual message. Stateless
// and safe for concurrent use.
type Responder struct {
	topics  []topic
	generic string
}

// NewResponder returns a responder covering the supported topic areas.
func NewResponder() *Responder {
	return &Responder{topics: builtinTopics, generic: genericResponse}
}

// Respond returns a non-empty static message for the question, picking
// the first topic whose trigger appears in the lowercased text. The
// returned topic name is the provenance source id.
func (r *Responder) Respond(question string) (text, topicName string) {
	lower := strings.ToLower(question)
	for _, t := range r.topics {
		for _, trig := range t.triggers {
			if strings.Contains(lower, trig) {
				return t.response, t.name
			}
		}
	}
	return r.generic, "generic"
}

// #endregion responder

// #region topics

// Each response states what the user can do next. Keep every message at
// least 100 characters; the cascade relies on fallback text carrying
// real guidance, not an apology.
var builtinTopics = []topic{
	{
		name:     "courses",
		triggers: []string{"course", "enroll", "class", "lesson", "curriculum", "freedom formula"},
		response: "I don't have a specific answer for that course question, but you can browse the " +
			"full course catalog from the member portal under Courses. The Freedom Formula track " +
			"is the recommended starting point for new members. If a course page looks wrong or " +
			"enrollment fails, contact support with the course name and they will sort it out.",
	},
	{
		name:     "account",
		triggers: []string{"password", "login", "log in", "sign in", "account", "email", "reset"},
		response: "For account and sign-in issues, start with the Forgot Password link on the login " +
			"page, which sends a reset email within a few minutes. If the email never arrives, " +
			"check your spam folder, then contact support with the address on your account so " +
			"they can verify it and restore access.",
	},
	{
		name:     "billing",
		triggers: []string{"payment", "billing", "refund", "price", "cost", "subscription", "invoice"},
		response: "I can't look up billing details from here. Your invoices, subscription status, " +
			"and payment methods are all listed in the member portal under Billing. For refund " +
			"requests or charges you don't recognize, contact support with the invoice number " +
			"and they will review it within one business day.",
	},
	{
		name:     "trusts",
		triggers: []string{"trust", "credit", "creditor", "sovereign", "llc", "business entity"},
		response: "That topic is covered in depth in our sovereignty and business credit courses, " +
			"which walk through trusts, entity structuring, and credit building step by step. " +
			"Start with the introductory module in the course catalog, and bring specific " +
			"questions to the weekly live Q&A sessions where instructors answer them directly.",
	},
	{
		name:     "greeting",
		triggers: []string{"hello", "hi there", "hey", "good morning", "good afternoon"},
		response: "Hello! I'm the Creditor Academy assistant. I can answer questions about our " +
			"courses, enrollment, account access, and the sovereignty education curriculum. " +
			"Ask me anything, or say \"what is creditor academy\" for an overview of what we offer.",
	},
}

var genericResponse = "I don't have a good answer for that yet. I can help with questions about " +
	"Creditor Academy courses, enrollment, account access, billing, and sovereignty education. " +
	"Try rephrasing your question with more detail, or contact support through the member " +
	"portal if you need help with something specific to your account."

// #endregion topics
