package mcp

import "github.com/mark3labs/mcp-go/mcp"

// matchSkillsTool defines the match_skills MCP tool.
var matchSkillsTool = mcp.NewTool("match_skills",
	mcp.WithDescription("Ground free-text skill phrases in the controlled skill taxonomy. Returns the canonical concept for each phrase."),
	mcp.WithString("skills",
		mcp.Required(),
		mcp.Description("Comma-separated skill phrases, e.g. \"LLMs, prompt engineering\""),
	),
)

// searchCoursesTool defines the search_courses MCP tool.
var searchCoursesTool = mcp.NewTool("search_courses",
	mcp.WithDescription("Search the course catalog semantically. Returns matching courses with provider, level, format and taught skills."),
	mcp.WithString("query",
		mcp.Required(),
		mcp.Description("Natural language search query"),
	),
	mcp.WithNumber("limit",
		mcp.Description("Maximum number of results to return (default 5)"),
	),
)

// getRecommendationsTool defines the get_recommendations MCP tool.
var getRecommendationsTool = mcp.NewTool("get_recommendations",
	mcp.WithDescription("Get personalized course recommendations for a user, excluding previously rejected courses, with confidence scores."),
	mcp.WithString("user_id",
		mcp.Required(),
		mcp.Description("The user to recommend for"),
	),
	mcp.WithNumber("top_n",
		mcp.Description("How many courses to return (default from config)"),
	),
	mcp.WithBoolean("justify",
		mcp.Description("Also generate per-course justification text via the LLM"),
	),
)

// recordFeedbackTool defines the record_feedback MCP tool.
var recordFeedbackTool = mcp.NewTool("record_feedback",
	mcp.WithDescription("Record structured feedback on a recommended course. The reason text is classified and the verdict is persisted to the user's feedback log."),
	mcp.WithString("user_id",
		mcp.Required(),
		mcp.Description("The user giving feedback"),
	),
	mcp.WithString("course_id",
		mcp.Required(),
		mcp.Description("The course the feedback is about"),
	),
	mcp.WithString("feedback_type",
		mcp.Required(),
		mcp.Description("The structured verdict"),
		mcp.Enum("keep", "adjust", "reject"),
	),
	mcp.WithString("reason",
		mcp.Description("Free-text reason; defaults to a per-verdict label when omitted"),
	),
	mcp.WithString("course_title",
		mcp.Description("Course title for the log entry"),
	),
)

// getProfileTool defines the get_profile MCP tool.
var getProfileTool = mcp.NewTool("get_profile",
	mcp.WithDescription("Get a user's coaching profile: goal, known and missing skills, preferences and feedback log."),
	mcp.WithString("user_id",
		mcp.Required(),
		mcp.Description("The user whose profile to fetch"),
	),
)

// updateGoalTool defines the update_goal MCP tool.
var updateGoalTool = mcp.NewTool("update_goal",
	mcp.WithDescription("Set a user's learning goal and re-infer the skills they are missing for it."),
	mcp.WithString("user_id",
		mcp.Required(),
		mcp.Description("The user whose goal to set"),
	),
	mcp.WithString("goal",
		mcp.Required(),
		mcp.Description("The new learning goal"),
	),
)

// inferMissingSkillsTool defines the infer_missing_skills MCP tool.
var inferMissingSkillsTool = mcp.NewTool("infer_missing_skills",
	mcp.WithDescription("Infer which taxonomy skills a goal requires that are not in the given known set."),
	mcp.WithString("goal",
		mcp.Required(),
		mcp.Description("The learning goal to analyze"),
	),
	mcp.WithString("known_skills",
		mcp.Description("Comma-separated skills already known, excluded from the result"),
	),
)
