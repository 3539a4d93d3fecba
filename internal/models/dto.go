package models

import "github.com/RubachokBoss/grade-tracker/internal/service/grading"

// Data Transfer Objects

type CreateCourseRequest struct {
	Name        string   `json:"name"`
	Code        string   `json:"code"`
	TargetGrade *float64 `json:"target_grade"`
	Color       string   `json:"color"`
}

// UpdateCourseRequest leaves nil fields untouched.
type UpdateCourseRequest struct {
	Name        *string  `json:"name"`
	Code        *string  `json:"code"`
	TargetGrade *float64 `json:"target_grade"`
	Color       *string  `json:"color"`
}

type CreateAssignmentRequest struct {
	Name   string   `json:"name"`
	Type   string   `json:"type"`
	Grade  *float64 `json:"grade"`
	Weight *float64 `json:"weight"`
	Date   string   `json:"date"`
}

type UpdateAssignmentRequest struct {
	Name   *string  `json:"name"`
	Type   *string  `json:"type"`
	Grade  *float64 `json:"grade"`
	Weight *float64 `json:"weight"`
	Date   *string  `json:"date"`
}

type WhatIfRequest struct {
	TargetGrade *float64 `json:"target_grade"`
	FinalWeight *float64 `json:"final_weight"`
}

type WhatIfResponse struct {
	CourseID   string              `json:"course_id"`
	Applicable bool                `json:"applicable"`
	Projection *grading.Projection `json:"projection,omitempty"`
	Current    grading.Summary     `json:"current"`
}

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest accepts either the username or the email in Login.
type LoginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type AuthResponse struct {
	User *User `json:"user"`
}

type GuestSessionResponse struct {
	SessionID string       `json:"session_id"`
	ExpiresIn int          `json:"expires_in"`
	Courses   []CourseView `json:"courses"`
}

type MetaResponse struct {
	GradeScale      []grading.Bucket `json:"grade_scale"`
	AssignmentTypes []AssignmentType `json:"assignment_types"`
	CourseColors    []CourseColor    `json:"course_colors"`
}
