package quality

import (
	"math"
	"testing"
)

func TestEvaluateTotalIsWeightedSum(t *testing.T) {
	s := Evaluate(
		"how do i enroll in a course",
		"To enroll, log in to the portal. Go to the catalog and click Enroll. Follow the payment steps on screen.",
		"enrollment context about courses",
	)
	want := WeightRelevance*s.Relevance +
		WeightCompleteness*s.Completeness +
		WeightClarity*s.Clarity +
		WeightKBAlignment*s.KBAlignment
	if math.Abs(s.Total-want) > 1e-9 {
		t.Fatalf("Total = %f, weighted sum = %f", s.Total, want)
	}
	if math.Abs(WeightRelevance+WeightCompleteness+WeightClarity+WeightKBAlignment-1.0) > 1e-9 {
		t.Fatal("weights must sum to 1.0")
	}
}

func TestEvaluateDeterministic(t *testing.T) {
	q := "what is business credit"
	a := "Business credit is borrowing capacity built under a company profile. Check the Business Credit course for setup steps. It covers tradelines and funding."
	first := Evaluate(q, a, "")
	second := Evaluate(q, a, "")
	if first != second {
		t.Fatalf("Evaluate not deterministic: %+v vs %+v", first, second)
	}
}

func TestEvaluateComponentsInRange(t *testing.T) {
	cases := []struct {
		name       string
		q, a, ctx  string
	}{
		{"empty answer", "what is this", "", ""},
		{"empty question", "", "Some answer text here.", ""},
		{"long answer", "how do things work", "Step one. Step two. Step three. Step four. Step five. Step six. Step seven. Step eight.", "ctx"},
		{"nonsense", "qwertyuiop", "zxcvbnm asdf", ""},
	}
	for _, tc := range cases {
		s := Evaluate(tc.q, tc.a, tc.ctx)
		for name, v := range map[string]float64{
			"relevance": s.Relevance, "completeness": s.Completeness,
			"clarity": s.Clarity, "kb_alignment": s.KBAlignment, "total": s.Total,
		} {
			if v < 0 || v > 1 {
				t.Errorf("%s: %s = %f out of [0,1]", tc.name, name, v)
			}
		}
	}
}

func TestRelevanceHowPenalty(t *testing.T) {
	q := "how do i reset my password"
	withAction := Evaluate(q, "Click Forgot Password and follow the reset link sent to your email address. Enter a new password when prompted. The reset link expires quickly.", "")
	withoutAction := Evaluate(q, "Your password reset question relates to account security policies and email verification rules that apply broadly. Password reset policies matter. Many users ask this.", "")
	if withAction.Relevance <= withoutAction.Relevance {
		t.Fatalf("how-question without action words should score lower relevance: %f vs %f",
			withAction.Relevance, withoutAction.Relevance)
	}
}

func TestRelevanceEmptyQuestion(t *testing.T) {
	s := Evaluate("", "Any answer at all.", "")
	if s.Relevance != 0 {
		t.Fatalf("relevance with empty question = %f, want 0", s.Relevance)
	}
}

func TestCompletenessPrefersMultiSentence(t *testing.T) {
	q := "what is the freedom formula"
	one := Evaluate(q, "The Freedom Formula is our flagship roadmap", "")
	three := Evaluate(q, "The Freedom Formula is our flagship roadmap. It covers status correction and trust structuring. Go to Courses and click Enroll.", "")
	if three.Completeness <= one.Completeness {
		t.Fatalf("three sentences should beat one: %f vs %f", three.Completeness, one.Completeness)
	}
}

func TestClarityRewardsStructure(t *testing.T) {
	q := "how do i enroll"
	flat := "log in then go to the catalog then select the course then click enroll then pay and then wait for access to be granted by the system after checkout completes fully"
	structured := "Follow these steps:\n- Log in to the portal\n- Go to the catalog\n- Select the course\n- Click **Enroll**\n- Complete payment and wait for access to be granted"
	if Evaluate(q, structured, "").Clarity <= Evaluate(q, flat, "").Clarity {
		t.Fatal("structured answer should score higher clarity")
	}
}

func TestKBAlignmentNoContext(t *testing.T) {
	s := Evaluate("q", "some answer text here", "")
	if s.KBAlignment != 0.5 {
		t.Fatalf("kb_alignment without context = %f, want 0.5", s.KBAlignment)
	}
}

func TestKBAlignmentMarkerPhrases(t *testing.T) {
	s := Evaluate("q", "According to the knowledge base, enrollment opens monthly.", "enrollment opens monthly")
	if s.KBAlignment != 0.9 {
		t.Fatalf("kb_alignment with marker phrase = %f, want 0.9", s.KBAlignment)
	}
}

func TestKBAlignmentOverlapFloor(t *testing.T) {
	// Answer shares nothing with context and carries no marker: floor at 0.4.
	s := Evaluate("q", "zebra quantum xylophone wanders", "enrollment billing portal")
	if math.Abs(s.KBAlignment-0.4) > 1e-9 {
		t.Fatalf("kb_alignment = %f, want 0.4", s.KBAlignment)
	}
}
