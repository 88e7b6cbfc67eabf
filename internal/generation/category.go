// Package generation writes the résumé and cover letter submitted with an
// application. Generation never fails: when the model is unavailable or
// errors, a template built from the profile is returned instead.
package generation

import (
	"strings"

	"github.com/jonathan/apply-agent/internal/profile"
)

// Category is a coarse job family derived from the posting title.
type Category string

const (
	CategoryDataEngineer Category = "data_engineer"
	CategoryDataAnalyst  Category = "data_analyst"
	CategoryAIEngineer   Category = "ai_engineer"
	CategoryBIDeveloper  Category = "bi_developer"
	CategoryAIPrototyper Category = "ai_prototyper"
	CategoryGeneral      Category = "general"
)

type categoryRule struct {
	category     Category
	keywords     []string
	skillGroups  []string
	requirements string
}

// categoryRules is evaluated in order; the first rule with a keyword in the title wins.
var categoryRules = []categoryRule{
	{
		category:     CategoryDataEngineer,
		keywords:     []string{"data engineer", "etl", "pipeline", "data infrastructure"},
		skillGroups:  []string{"Data Engineering", "Databases", "Big Data", "ETL/ELT", "Cloud Platforms"},
		requirements: "Data pipeline development, ETL/ELT processes, database management, cloud platforms, big data technologies",
	},
	{
		category:     CategoryDataAnalyst,
		keywords:     []string{"data analyst", "analytics", "business analyst"},
		skillGroups:  []string{"Data Analysis", "Programming", "Analytics Tools", "Statistical Analysis"},
		requirements: "Data analysis, statistical analysis, data visualization, SQL, analytics tools",
	},
	{
		category:     CategoryAIEngineer,
		keywords:     []string{"ai engineer", "machine learning", "ml engineer", "deep learning"},
		skillGroups:  []string{"AI Engineering", "Machine Learning", "Deep Learning", "NLP"},
		requirements: "Machine learning, deep learning, model development, MLOps, AI/ML frameworks",
	},
	{
		category:     CategoryBIDeveloper,
		keywords:     []string{"business intelligence", "bi developer", "bi engineer", "dashboard"},
		skillGroups:  []string{"Business Intelligence", "BI Tools", "SQL", "Data Modeling"},
		requirements: "Business intelligence tools, dashboard development, data modeling, SQL, KPI tracking",
	},
	{
		category:     CategoryAIPrototyper,
		keywords:     []string{"ai prototyper", "prototype", "poc", "rapid prototyping"},
		skillGroups:  []string{"AI Prototyping", "Rapid Prototyping", "User Experience"},
		requirements: "Rapid prototyping, proof of concepts, user experience design, AI/ML integration",
	},
}

const generalRequirements = "General technical skills and problem-solving abilities"

// maxRelevantSkills caps the skill list handed to the model.
const maxRelevantSkills = 12

// CategorizeJob maps a job title to a Category.
func CategorizeJob(title string) Category {
	if rule, ok := ruleFor(title); ok {
		return rule.category
	}
	return CategoryGeneral
}

func ruleFor(title string) (categoryRule, bool) {
	lower := strings.ToLower(title)
	for _, rule := range categoryRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule, true
			}
		}
	}
	return categoryRule{}, false
}

func ruleByCategory(c Category) (categoryRule, bool) {
	for _, rule := range categoryRules {
		if rule.category == c {
			return rule, true
		}
	}
	return categoryRule{}, false
}

// Requirements describes what postings in category c usually ask for.
func Requirements(c Category) string {
	if rule, ok := ruleByCategory(c); ok {
		return rule.requirements
	}
	return generalRequirements
}

// RelevantSkills picks the profile skills that matter for category c. The
// general category, and any category the profile has no skills for, uses
// every skill on the profile.
func RelevantSkills(p *profile.Profile, c Category) []string {
	if p == nil {
		return nil
	}
	var skills []string
	if rule, ok := ruleByCategory(c); ok {
		for _, group := range rule.skillGroups {
			skills = append(skills, p.Skills[group]...)
		}
	}
	if len(skills) == 0 {
		skills = p.AllSkills()
	}
	if len(skills) > maxRelevantSkills {
		skills = skills[:maxRelevantSkills]
	}
	return skills
}
