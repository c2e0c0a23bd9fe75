package process

// DefaultRegistry holds the four template-driven STLC processes.
var DefaultRegistry = NewRegistry(
	Config{
		Type:             TypeCodeReview,
		Slug:             "code-review",
		Placeholders:     []string{PlaceholderCode},
		Classify:         ClassifyAllCode,
		DefaultSuffix:    "\n\nReview the following source files:\n{code}",
		CombineHeading:   "# Complete Code Review Summary",
		ResultField:      "reviews",
		OutputField:      "review",
		SessionOutputKey: "review",
	},
	Config{
		Type:             TypeRequirementAnalysis,
		Slug:             "requirement-analysis",
		Placeholders:     []string{PlaceholderCode, PlaceholderRequirementDocument},
		RequiresTypes:    true,
		Classify:         ClassifyByTag,
		AppendSuffix:     true,
		DefaultSuffix:    "\n\nRequirement document:\n{requirement_document}\n\nSource code:\n{code}",
		CombineHeading:   "# Complete Requirement Analysis Summary",
		ResultField:      "analysis",
		OutputField:      "result",
		SessionOutputKey: "analysis",
	},
	Config{
		Type:             TypeTestPlanning,
		Slug:             "test-planning",
		Placeholders:     []string{PlaceholderCode, PlaceholderRequirementDocument, PlaceholderToday},
		Classify:         ClassifyByFilename,
		DefaultSuffix:    "\n\nToday's date: {today}\n\nRequirements:\n{requirement_document}\n\nSource code:\n{code}",
		CombineHeading:   "# Complete Test Planning Summary",
		ResultField:      "plans",
		OutputField:      "plan",
		SessionOutputKey: "plan",
	},
	Config{
		Type:             TypeEnvironmentSetup,
		Slug:             "environment-setup",
		Placeholders:     []string{PlaceholderCode, PlaceholderRequirementDocument},
		RequiresTypes:    true,
		Classify:         ClassifyByTag,
		AppendSuffix:     true,
		DefaultSuffix:    "\n\nRequirement document:\n{requirement_document}\n\nProject files:\n{code}",
		CombineHeading:   "# Complete Environment Setup Summary",
		ResultField:      "setups",
		OutputField:      "setup",
		SessionOutputKey: "setup",
	},
)
