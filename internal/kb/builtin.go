package kb

// #region builtin

// Builtin returns the embedded curated Q&A set used when no external
// source is configured. Answers are maintained by domain experts;
// keys are stored in already-canonical form.
func Builtin() []Entry {
	return []Entry{
		{
			Key: "what is creditor academy",
			Answer: "Creditor Academy is an educational platform focused on financial " +
				"sovereignty and private business credit. It teaches members how to move " +
				"from consumer debt into the creditor position through structured courses. " +
				"Go to the course catalog and select the orientation module to get started.",
			Category: CategoryCreditorAcademy,
			Tags:     []string{"overview", "about"},
		},
		{
			Key: "hello",
			Answer: "Hello and welcome to Creditor Academy! I can answer questions about " +
				"our courses, the Freedom Formula, business credit, and general topics. " +
				"Ask me anything, or open the course catalog to browse what is available.",
			Category: CategoryGeneral,
			Tags:     []string{"greeting"},
		},
		{
			Key: "hi",
			Answer: "Hi there! I'm the Creditor Academy assistant. I can explain our " +
				"sovereignty education, walk you through enrollment steps, or answer " +
				"general questions. Click any course in the catalog to see its details.",
			Category: CategoryGeneral,
			Tags:     []string{"greeting"},
		},
		{
			Key: "what is the freedom formula",
			Answer: "The Freedom Formula is Creditor Academy's flagship roadmap for " +
				"reclaiming financial sovereignty. It covers status correction, trust " +
				"structuring, and building private business credit in sequenced steps. " +
				"Navigate to Courses and select Freedom Formula to enroll.",
			Category: CategoryCreditorAcademy,
			Tags:     []string{"course", "freedom formula"},
		},
		{
			Key: "what is sovereignty education",
			Answer: "Sovereignty education teaches the legal and commercial foundations " +
				"of operating in the private: trusts, secured transactions, and the " +
				"creditor position. Creditor Academy packages this into guided modules " +
				"with worksheets. Open the Sovereignty 101 course to begin.",
			Category: CategoryCreditorAcademy,
			Tags:     []string{"sovereignty"},
		},
		{
			Key: "how do i enroll in a course",
			Answer: "To enroll, log in to the member portal, go to the course catalog, " +
				"select the course you want, and click Enroll. Payment and access steps " +
				"follow on screen. If checkout fails, contact support through the help " +
				"widget in the portal footer.",
			Category: CategoryCreditorAcademy,
			Tags:     []string{"enrollment", "howto"},
		},
		{
			Key: "how do i reset my password",
			Answer: "Click Forgot Password on the login screen, enter the email you " +
				"registered with, and follow the link in the reset message. The link " +
				"expires after 30 minutes. If no email arrives, check spam and then " +
				"contact support from the login page.",
			Category: CategoryTechnology,
			Tags:     []string{"account", "howto"},
		},
		{
			Key: "what is a business trust",
			Answer: "A business trust is a private contractual arrangement where trustees " +
				"hold and manage assets for beneficiaries under a trust indenture. It is " +
				"a core structure taught in our trust courses. Select the Trust Basics " +
				"module in the catalog to see the full curriculum.",
			Category: CategoryBusiness,
			Tags:     []string{"trust"},
		},
		{
			Key: "what is business credit",
			Answer: "Business credit is borrowing capacity built under a company's own " +
				"profile, separate from your personal score. Lenders check bureaus like " +
				"Dun & Bradstreet rather than consumer files. Our Business Credit course " +
				"walks through entity setup, tradelines, and funding steps in order.",
			Category: CategoryBusiness,
			Tags:     []string{"credit"},
		},
		{
			Key: "what is artificial intelligence",
			Answer: "Artificial intelligence refers to software systems that perform " +
				"tasks associated with human reasoning, such as understanding language " +
				"or recognizing patterns. Modern AI assistants are built on large " +
				"language models trained on text. Ask a follow-up if you want specifics.",
			Category: CategoryTechnology,
			Tags:     []string{"ai"},
		},
		{
			Key: "what are your hours",
			Answer: "The assistant is available around the clock, every day. Live support " +
				"staff respond Monday through Friday, 9 AM to 5 PM Eastern. For anything " +
				"urgent outside those hours, open a ticket in the member portal and it " +
				"will be answered the next business day.",
			Category: CategoryGeneral,
			Tags:     []string{"support", "schedule"},
		},
		{
			Key: "thank you",
			Answer: "You're welcome! If anything else comes up about Creditor Academy, " +
				"the Freedom Formula, or your account, just ask. You can also browse the " +
				"course catalog or open the help widget for live support.",
			Category: CategoryGeneral,
			Tags:     []string{"courtesy"},
		},
	}
}

// #endregion builtin
