package gate

import (
	"strings"
	"testing"
)

// goodAnswer reliably clears the quality floor: full question-token
// coverage, three sentences, bullet structure, action verbs, specifics.
const goodAnswer = "Here is how to enroll in a course:\n- Log in to the member portal\n" +
	"- Go to the course catalog and select the course\n- Click Enroll and complete payment. " +
	"Access is granted after checkout completes. Most members finish enrollment in about 5 minutes."

const goodQuestion = "how do i enroll in a course"

func TestValidateAcceptsGoodAnswer(t *testing.T) {
	v := NewValidator(DefaultConfig())
	d := v.Validate(goodQuestion, goodAnswer, "enroll course catalog portal")
	if !d.Valid {
		t.Fatalf("expected accept, got reject: %s (total=%.3f)", d.Reason, d.Score.Total)
	}
	if d.Confidence != d.Score.Total {
		t.Fatalf("accept confidence %.3f should equal score total %.3f", d.Confidence, d.Score.Total)
	}
}

func TestValidateRejectsTooShort(t *testing.T) {
	v := NewValidator(DefaultConfig())
	d := v.Validate("anything", "short answer", "")
	if d.Valid || d.Reason != "too short" {
		t.Fatalf("expected 'too short', got valid=%v reason=%q", d.Valid, d.Reason)
	}
	if d.Confidence != 0.05 {
		t.Fatalf("too-short confidence = %.2f, want 0.05", d.Confidence)
	}
}

func TestValidateRejectsTooLong(t *testing.T) {
	v := NewValidator(DefaultConfig())
	d := v.Validate("anything", strings.Repeat("words and more words. ", 120), "")
	if d.Valid || d.Reason != "too long (possible hallucination)" {
		t.Fatalf("expected too-long rejection, got valid=%v reason=%q", d.Valid, d.Reason)
	}
	if d.Confidence != 0.15 {
		t.Fatalf("too-long confidence = %.2f, want 0.15", d.Confidence)
	}
}

func TestValidateRejectsLowQuality(t *testing.T) {
	v := NewValidator(DefaultConfig())
	// Off-topic single sentence: low overlap, low completeness.
	d := v.Validate("how do i enroll in a course", "Zebras are striped animals of the savanna", "")
	if d.Valid {
		t.Fatalf("expected reject, got accept with total=%.3f", d.Score.Total)
	}
	if d.Reason != "low quality" {
		t.Fatalf("reason = %q, want 'low quality'", d.Reason)
	}
}

func TestValidateRejectsUncertainty(t *testing.T) {
	v := NewValidator(DefaultConfig())
	answer := "Maybe you could enroll in a course somehow, but the exact enrollment flow is unclear to me right now."
	d := v.Validate("how do i enroll in a course", answer, "")
	if d.Valid {
		t.Fatal("expected reject for uncertainty")
	}
	if d.Reason != "low quality" && d.Reason != "uncertainty without high confidence" {
		t.Fatalf("unexpected reason %q", d.Reason)
	}
}

func TestValidateRejectsGenericFiller(t *testing.T) {
	v := NewValidator(Config{MinAnswerLen: 20, MaxAnswerLen: 2000, MinQualityScore: 0.0})
	answer := "Thank you for asking, that topic matters a lot to enroll in a course today."
	d := v.Validate("enroll course matters topic", answer, "")
	if d.Valid && len(answer) < 100 {
		t.Fatalf("short filler answer should be rejected, got accept (total=%.3f)", d.Score.Total)
	}
}

func TestValidateRejectsAvoidanceWithoutGuidance(t *testing.T) {
	v := NewValidator(DefaultConfig())
	answer := "I cannot help with enroll course catalog portal payment questions in this conversation at this time, unfortunately for everyone involved."
	d := v.Validate("enroll course catalog portal payment", answer, "")
	if d.Valid {
		t.Fatal("avoidance without 'contact support' must be rejected")
	}
}

func TestValidateAllowsAvoidanceWithGuidance(t *testing.T) {
	v := NewValidator(DefaultConfig())
	answer := "I cannot help with billing disputes directly. Please contact support through the member portal. Go to the help widget, open a ticket, and the billing team will follow up with next steps."
	d := v.Validate("billing disputes help ticket support portal", answer, "ctx")
	// The avoidance rule itself must not fire; later rules may still reject on score.
	if !d.Valid && d.Reason == "avoidance without guidance" {
		t.Fatal("'contact support' should bypass the avoidance rule")
	}
}

func TestValidateRejectsApologyWithoutSubstance(t *testing.T) {
	v := NewValidator(DefaultConfig())
	answer := "Sorry, something went wrong while generating a longer response for you this time around."
	d := v.Validate("how do i enroll in a course", answer, "")
	if d.Valid {
		t.Fatal("expected apology rejection")
	}
}

func TestValidateBelowMinimum(t *testing.T) {
	// Raise the floor so an otherwise-acceptable answer trips rule 9.
	v := NewValidator(Config{MinAnswerLen: 20, MaxAnswerLen: 2000, MinQualityScore: 0.99})
	d := v.Validate(goodQuestion, goodAnswer, "enroll course catalog portal")
	if d.Valid {
		t.Fatal("expected below-minimum rejection with 0.99 floor")
	}
	if d.Reason != "below minimum" {
		t.Fatalf("reason = %q, want 'below minimum'", d.Reason)
	}
}

func TestValidatePure(t *testing.T) {
	v := NewValidator(DefaultConfig())
	first := v.Validate(goodQuestion, goodAnswer, "ctx words here")
	second := v.Validate(goodQuestion, goodAnswer, "ctx words here")
	if first != second {
		t.Fatalf("Validate not pure: %+v vs %+v", first, second)
	}
}
