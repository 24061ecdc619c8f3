package model

import "time"

// The structs below are both the API payload of a submission and the
// schema of Response.ResponseData for the matching assessment type.

type TestInfo struct {
	TestUUID       string    `json:"test_uuid"`
	TestName       string    `json:"test_name"`
	AssessmentType string    `json:"assessment_type"`
	CompletedAt    time.Time `json:"completed_at"`
}

type DimensionScore struct {
	Name       string   `json:"dimension_name"`
	Title      string   `json:"title,omitempty"`
	Score      *float64 `json:"score,omitempty"`
	Level      string   `json:"level,omitempty"`
	Percentage float64  `json:"percentage"`
}

type ChartData struct {
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
}

type DimensionDetail struct {
	Name            string   `json:"name"`
	Title           string   `json:"title,omitempty"`
	Description     string   `json:"description"`
	KeyTraits       []string `json:"key_traits,omitempty"`
	StudyTechniques []string `json:"study_techniques,omitempty"`
}

type CareerCategoryDetail struct {
	CategoryName     string   `json:"category_name"`
	Responsibilities []string `json:"responsibilities"`
}

type MajorDetail struct {
	MajorName string   `json:"major_name"`
	Schools   []string `json:"schools"`
}

type RecommendedCareer struct {
	CareerUUID  string                 `json:"career_uuid"`
	CareerName  string                 `json:"career_name"`
	Description string                 `json:"description"`
	Categories  []CareerCategoryDetail `json:"categories"`
	Majors      []MajorDetail          `json:"majors"`
}

type PersonalityTypeDetail struct {
	Name        string   `json:"name"`
	Title       string   `json:"title,omitempty"`
	Description string   `json:"description"`
	KeyTraits   []string `json:"key_traits,omitempty"`
	Strengths   []string `json:"strengths,omitempty"`
	Weaknesses  []string `json:"weaknesses,omitempty"`
}

type PersonalityResult struct {
	TestInfo
	PersonalityType    PersonalityTypeDetail `json:"personality_type"`
	Dimensions         []DimensionScore      `json:"dimensions"`
	ChartData          ChartData             `json:"chart_data"`
	RecommendedCareers []RecommendedCareer   `json:"recommended_careers"`
}

type HollandCodeDetail struct {
	Code        string `json:"code"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description"`
}

type InterestResult struct {
	TestInfo
	HollandCode        HollandCodeDetail   `json:"holland_code"`
	TopDimensions      []DimensionDetail   `json:"top_dimensions"`
	Dimensions         []DimensionScore    `json:"dimensions"`
	ChartData          ChartData           `json:"chart_data"`
	RecommendedCareers []RecommendedCareer `json:"recommended_careers"`
}

type SkillCategoryScores struct {
	CategoryName string           `json:"category_name"`
	Skills       []DimensionScore `json:"skills"`
}

type SkillResult struct {
	TestInfo
	SkillCategories    []SkillCategoryScores `json:"skill_categories"`
	StrongSkills       []string              `json:"strong_skills"`
	ChartData          ChartData             `json:"chart_data"`
	RecommendedCareers []RecommendedCareer   `json:"recommended_careers"`
}

type LearningStyleResult struct {
	TestInfo
	DominantStyles     []DimensionDetail   `json:"dominant_styles"`
	Dimensions         []DimensionScore    `json:"dimensions"`
	ChartData          ChartData           `json:"chart_data"`
	RecommendedCareers []RecommendedCareer `json:"recommended_careers"`
}

type ValueDetail struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Score       float64 `json:"score"`
	Percentage  float64 `json:"percentage"`
}

type ValueResult struct {
	TestInfo
	TopValues          []ValueDetail       `json:"top_values"`
	Dimensions         []DimensionScore    `json:"dimensions"`
	ChartData          ChartData           `json:"chart_data"`
	RecommendedCareers []RecommendedCareer `json:"recommended_careers"`
}
