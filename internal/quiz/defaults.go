package quiz

import "sync"

// SegmentQuestionID is the ID of the default catalog's segment question.
const SegmentQuestionID = "q6"

// ReadyThreshold is the dimension score regarded as ready to scale.
const ReadyThreshold = 80

var (
	defaultCatalog     *Catalog
	defaultCatalogOnce sync.Once
)

// Default returns the compiled-in AI readiness catalog.
func Default() *Catalog {
	defaultCatalogOnce.Do(func() {
		defaultCatalog = MustNew(DefaultDefinition())
	})
	return defaultCatalog
}

// DefaultDefinition returns a fresh copy of the compiled-in catalog definition.
func DefaultDefinition() Definition {
	return Definition{
		Questions: defaultQuestions(),
		Weights: DimensionWeights{
			LeadershipGravity:    1.25,
			CulturalResilience:   1.0,
			SkillVisibility:      1.0,
			ChampionDensity:      0.75,
			GovernanceConfidence: 1.0,
			CapacityDirection:    1.0,
		},
		Priority: []Dimension{
			LeadershipGravity,
			CulturalResilience,
			GovernanceConfidence,
			ChampionDensity,
			SkillVisibility,
			CapacityDirection,
		},
		Bands:           defaultBands(),
		DefaultBand:     "High Risk",
		DefaultSegment:  SegmentExploring,
		Recommendations: defaultRecommendations(),
		Benchmarks: map[Dimension]int{
			LeadershipGravity:    45,
			CulturalResilience:   42,
			SkillVisibility:      33,
			ChampionDensity:      30,
			GovernanceConfidence: 28,
			CapacityDirection:    38,
		},
		OverallBenchmark: 37,
	}
}

func defaultBands() []Band {
	return []Band{
		{
			Name:        "High Risk",
			Min:         0,
			Max:         34,
			Description: "AI activity is running ahead of the human foundations needed to sustain it. Without leadership focus and cultural groundwork, investment is likely to stall.",
			Action:      "Secure an executive sponsor and agree one measurable AI objective before buying tools.",
		},
		{
			Name:        "Building",
			Min:         35,
			Max:         59,
			Description: "Foundations are forming but unevenly. Pockets of enthusiasm exist without the structure to scale them.",
			Action:      "Formalise a champion network and publish basic AI usage guidelines.",
		},
		{
			Name:        "Strong",
			Min:         60,
			Max:         79,
			Description: "Solid human foundations are in place. The remaining gaps are specific and fixable before scaling.",
			Action:      "Run a governed pilot against a single business KPI.",
		},
		{
			Name:        "Ready",
			Min:         80,
			Max:         100,
			Description: "Leadership, culture and guardrails are aligned to scale AI with confidence.",
			Action:      "Build a 12-month AI roadmap and expand proven pilots.",
		},
	}
}

func defaultQuestions() []Question {
	return []Question{
		// Leadership Gravity
		{
			ID:        "q1",
			Dimension: LeadershipGravity,
			Text:      "Who is currently accountable for AI in your organisation?",
			Options: []Option{
				{Label: "No one specifically, it happens ad hoc", Score: 0},
				{Label: "IT or a technical team", Score: 5},
				{Label: "A manager alongside other responsibilities", Score: 10},
				{Label: "A senior leader with budget authority and board visibility", Score: 20},
			},
		},
		{
			ID:        "q2",
			Dimension: LeadershipGravity,
			Text:      "How would you describe your leadership team's engagement with AI?",
			Options: []Option{
				{Label: "Passive: delegated entirely to others", Score: 0},
				{Label: "Reactive: discussed when AI topics come up", Score: 5},
				{Label: "Interested: attending briefings and asking questions", Score: 10},
				{Label: "Active: championing AI, allocating resources and removing blockers", Score: 20},
			},
		},
		{
			ID:        "q3",
			Dimension: LeadershipGravity,
			Text:      "If asked which business problem AI will solve in the next 90 days, your leadership team would:",
			Options: []Option{
				{Label: "Struggle to answer", Score: 0},
				{Label: "List several possibilities with no clear priority", Score: 5},
				{Label: "Name one area without success metrics", Score: 10},
				{Label: "Name a specific problem with defined success criteria", Score: 15},
			},
		},

		// Cultural Resilience
		{
			ID:        "q4",
			Dimension: CulturalResilience,
			Text:      "What is the general attitude toward AI across your workforce?",
			Options: []Option{
				{Label: "Fearful: worried about jobs and change", Score: 0},
				{Label: "Sceptical: initiatives come and go", Score: 5},
				{Label: "Neutral: open but waiting for proof", Score: 15},
				{Label: "Enthusiastic: actively looking for ways to use AI", Score: 20},
			},
		},
		{
			ID:        "q5",
			Dimension: CulturalResilience,
			Text:      "When new technology or processes are introduced, your organisation typically:",
			Options: []Option{
				{Label: "Meets significant resistance and slow adoption", Score: 0},
				{Label: "Sees pockets of adoption with inconsistent uptake", Score: 5},
				{Label: "Reaches reasonable adoption with some effort", Score: 10},
				{Label: "Embraces change quickly, led by early adopters", Score: 15},
			},
		},

		// Capacity Direction
		{
			ID:        SegmentQuestionID,
			Dimension: CapacityDirection,
			Text:      "Which statement best describes where your organisation is with AI today?",
			Segment:   true,
			Options: []Option{
				{Label: "Exploring: we are only starting to look at what AI could do", Score: 0, Segment: SegmentExploring},
				{Label: "Unsure: we have tried a few things but cannot say where we stand", Score: 3, Segment: SegmentUnsure},
				{Label: "Experimenting: individuals use AI tools informally", Score: 6, Segment: SegmentExperimenting},
				{Label: "Piloting: at least one funded AI pilot is underway", Score: 10, Segment: SegmentPiloting},
				{Label: "Scaling: AI runs in several teams with measured results", Score: 15, Segment: SegmentScaling},
				{Label: "Embedded: AI is part of how we operate across the business", Score: 20, Segment: SegmentEmbedded},
			},
		},
		{
			ID:        "q7",
			Dimension: CapacityDirection,
			Text:      "If AI freed up 20% of your team's time, how clear is the plan for using that capacity?",
			Options: []Option{
				{Label: "We have not thought about it", Score: 0},
				{Label: "We assume it would reduce headcount", Score: 5},
				{Label: "We have broad ideas but nothing agreed", Score: 10},
				{Label: "We have a clear plan to redirect time to higher-value work", Score: 20},
			},
		},

		// Skill Visibility
		{
			ID:        "q8",
			Dimension: SkillVisibility,
			Text:      "How well do you know the current AI skills of your people?",
			Options: []Option{
				{Label: "We have no visibility", Score: 0},
				{Label: "We have anecdotes from a few teams", Score: 10},
				{Label: "We have run an informal survey", Score: 20},
				{Label: "We maintain a skills map that is regularly updated", Score: 25},
			},
		},
		{
			ID:        "q9",
			Dimension: SkillVisibility,
			Text:      "Do you have staff who could be trained to build and manage AI solutions internally?",
			Options: []Option{
				{Label: "No, we lack technically minded staff", Score: 0},
				{Label: "Possibly, but they are fully committed elsewhere", Score: 10},
				{Label: "Yes, we have people who could develop these skills", Score: 20},
				{Label: "Yes, staff are already experimenting with AI tools", Score: 25},
			},
		},

		// Champion Density
		{
			ID:        "q10",
			Dimension: ChampionDensity,
			Text:      "Do you know who your potential AI champions are?",
			Options: []Option{
				{Label: "No, we have not identified anyone", Score: 0},
				{Label: "We have a vague sense but nothing formal", Score: 5},
				{Label: "We know a few names but have not engaged them", Score: 10},
				{Label: "Yes, champions are identified and already involved", Score: 15},
			},
		},
		{
			ID:        "q11",
			Dimension: ChampionDensity,
			Text:      "How many of your teams have someone actively sharing AI practices with colleagues?",
			Options: []Option{
				{Label: "None", Score: 0},
				{Label: "One or two", Score: 5},
				{Label: "About half", Score: 10},
				{Label: "Most or all", Score: 20},
			},
		},
		{
			ID:        "q12",
			Dimension: ChampionDensity,
			Text:      "How are champions supported to spread what they learn?",
			Options: []Option{
				{Label: "They are not", Score: 0},
				{Label: "Informally, in their own time", Score: 5},
				{Label: "With occasional forums or show-and-tells", Score: 10},
				{Label: "With protected time, a community and leadership recognition", Score: 15},
			},
		},

		// Governance Confidence
		{
			ID:        "q13",
			Dimension: GovernanceConfidence,
			Text:      "Does your organisation have AI usage policies or guidelines?",
			Options: []Option{
				{Label: "No, we have not addressed this", Score: 0},
				{Label: "Informal guidance exists but nothing documented", Score: 5},
				{Label: "Basic policies exist but need development", Score: 10},
				{Label: "Comprehensive AI governance is documented", Score: 15},
			},
		},
		{
			ID:        "q14",
			Dimension: GovernanceConfidence,
			Text:      "How clear is your organisation on what AI may and may not do autonomously?",
			Options: []Option{
				{Label: "Not clear at all", Score: 0},
				{Label: "General concerns but no defined boundaries", Score: 5},
				{Label: "Some understanding that is not formalised", Score: 10},
				{Label: "Clear human-in-the-loop requirements are documented", Score: 20},
			},
		},
		{
			ID:        "q15",
			Dimension: GovernanceConfidence,
			Text:      "If an AI tool made a mistake that affected a customer, how confident are you that you could find and correct it?",
			Options: []Option{
				{Label: "Not confident, we would struggle to trace it", Score: 0},
				{Label: "Somewhat confident, we would find it eventually", Score: 5},
				{Label: "Fairly confident, some oversight processes exist", Score: 10},
				{Label: "Very confident, we have audit trails and escalation paths", Score: 15},
			},
		},
	}
}

func defaultRecommendations() map[Dimension]Recommendation {
	return map[Dimension]Recommendation{
		LeadershipGravity: {
			Title:    "Priority: Secure Executive Sponsorship",
			Text:     "AI programmes without an active senior sponsor rarely survive their first setback. You need a leader with budget authority who will champion the work and remove blockers.",
			Question: "Who will fight for this project when you are not in the room?",
		},
		CulturalResilience: {
			Title:    "Priority: Address Workforce Concerns",
			Text:     "Attitudes toward AI can derail even well-planned initiatives. Surfacing and answering fears, especially about job security, has to come before rollout.",
			Question: "What concerns do your people have, and how will you answer them?",
		},
		SkillVisibility: {
			Title:    "Priority: Map the Skills You Already Have",
			Text:     "You cannot build on capability you cannot see. A simple skills map shows where to invest in training and where latent talent is waiting.",
			Question: "Which of your people are already using AI, and do you know what they are doing with it?",
		},
		ChampionDensity: {
			Title:    "Priority: Grow a Champion Network",
			Text:     "Adoption spreads peer to peer. A handful of supported champions across teams does more than any top-down mandate.",
			Question: "Who are your potential AI champions and how will you support them?",
		},
		GovernanceConfidence: {
			Title:    "Priority: Establish Clear AI Guardrails",
			Text:     "Without clear governance you risk compliance issues, reputational damage and uncontrolled shadow AI across the organisation.",
			Question: "What can AI do autonomously, and where must humans stay in the loop?",
		},
		CapacityDirection: {
			Title:    "Priority: Decide Where Freed Capacity Goes",
			Text:     "Efficiency gains that are not redirected turn into anxiety about headcount. Decide up front which higher-value work will absorb the time AI gives back.",
			Question: "What will your team do with the hours AI saves?",
		},
	}
}
