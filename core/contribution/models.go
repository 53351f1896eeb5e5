package contribution

import (
	"io"
	"strings"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/edugrade/portal/core"
)

type (
	Status string
	Kind   string
)

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"

	KindResearch   Kind = "research"
	KindInternship Kind = "internship"
)

// storage buckets
const (
	bucketAchievements      = "achievements"
	bucketResearch          = "research"
	bucketInternshipCertifs = "internship-certificates"
)

func (k Kind) Valid() bool { return k == KindResearch || k == KindInternship }

// File is an uploaded attachment.
type File struct {
	Filename    string
	ContentType string
	Content     io.Reader
}

type Achievement struct {
	ID             string      `json:"id" db:"id"`
	RegNo          string      `json:"reg_no" db:"reg_no"`
	Type           string      `json:"type" db:"type"`
	Date           string      `json:"date" db:"date"` // YYYY-MM-DD
	Content        string      `json:"content" db:"content"`
	Location       string      `json:"location" db:"location"`
	UniversityName null.String `json:"university_name" db:"university_name"`
	FileURL        string      `json:"file_url" db:"file_url"`
	SubmittedAt    time.Time   `json:"submitted_at" db:"submitted_at"` // UTC
	CreatedAt      time.Time   `json:"created_at" db:"created_at"`     // UTC
}

// AchievementForm is the multipart form of an achievement. RegNo is ignored on update.
type AchievementForm struct {
	RegNo          string `form:"regNo" validate:"omitempty,regno"`
	Type           string `form:"type" validate:"required,notblank,max=100"`
	Date           string `form:"date" validate:"required,datetime=2006-01-02"`
	Content        string `form:"content" validate:"required,notblank"`
	Location       string `form:"location" validate:"required,notblank,max=255"`
	UniversityName string `form:"universityName" validate:"max=255"`
}

func (f *AchievementForm) Clean() {
	f.RegNo = core.CleanString(f.RegNo)
	f.Type = core.CleanString(f.Type)
	f.Date = core.CleanString(f.Date)
	f.Content = core.CleanString(f.Content)
	f.Location = core.CleanString(f.Location)
	f.UniversityName = core.CleanString(f.UniversityName)
}

// Review holds the outcome of a teacher review.
type Review struct {
	Decision Status `json:"decision" validate:"required,oneof=approved rejected"`
	Note     string `json:"note" validate:"max=2000"`
}

type ResearchSubmission struct {
	ID              string      `json:"id" db:"id"`
	RegNo           string      `json:"reg_no" db:"reg_no"`
	StudentName     string      `json:"student_name" db:"student_name"`
	Department      string      `json:"department" db:"department"`
	Semester        int         `json:"semester" db:"semester"`
	Title           string      `json:"title" db:"title"`
	Domain          string      `json:"domain" db:"domain"`
	PublicationType string      `json:"publication_type" db:"publication_type"`
	PublisherName   string      `json:"publisher_name" db:"publisher_name"`
	DOILink         string      `json:"doi_link" db:"doi_link"`
	Abstract        string      `json:"abstract" db:"abstract"`
	PublishedOn     null.String `json:"published_on" db:"published_on"` // YYYY-MM-DD
	MentorName      string      `json:"mentor_name" db:"mentor_name"`
	Organization    string      `json:"organization" db:"organization"`
	FileURL         null.String `json:"file_url" db:"file_url"`
	Status          Status      `json:"status" db:"status"`
	ReviewNote      null.String `json:"review_note" db:"review_note"`
	ReviewedAt      null.Time   `json:"reviewed_at" db:"reviewed_at"`
	SubmittedAt     time.Time   `json:"submitted_at" db:"submitted_at"` // UTC
}

type ResearchForm struct {
	StudentName     string `form:"studentName" validate:"required,notblank,max=255"`
	Department      string `form:"department" validate:"required,notblank,max=100"`
	Semester        int    `form:"semester" validate:"required,min=1,max=12"`
	Title           string `form:"title" validate:"required,notblank"`
	Domain          string `form:"domain" validate:"required,notblank,max=255"`
	PublicationType string `form:"publicationType" validate:"required,notblank,max=100"`
	PublisherName   string `form:"publisherName" validate:"max=255"`
	DOILink         string `form:"doiLink" validate:"omitempty,url"`
	Abstract        string `form:"abstract"`
	PublishedOn     string `form:"publishedOn" validate:"omitempty,datetime=2006-01-02"`
	MentorName      string `form:"mentorName" validate:"max=255"`
	Organization    string `form:"organization" validate:"max=255"`
}

func (f *ResearchForm) Clean() {
	f.StudentName = core.CleanString(f.StudentName)
	f.Department = core.CleanString(f.Department)
	f.Title = core.CleanString(f.Title)
	f.Domain = core.CleanString(f.Domain)
	f.PublicationType = core.CleanString(f.PublicationType)
	f.PublisherName = core.CleanString(f.PublisherName)
	f.DOILink = core.CleanString(f.DOILink)
	f.Abstract = core.CleanString(f.Abstract)
	f.PublishedOn = core.CleanString(f.PublishedOn)
	f.MentorName = core.CleanString(f.MentorName)
	f.Organization = core.CleanString(f.Organization)
}

type InternshipSubmission struct {
	ID             string      `json:"id" db:"id"`
	RegNo          string      `json:"reg_no" db:"reg_no"`
	StudentName    string      `json:"student_name" db:"student_name"`
	Department     string      `json:"department" db:"department"`
	Semester       int         `json:"semester" db:"semester"`
	CompanyName    string      `json:"company_name" db:"company_name"`
	Role           string      `json:"role" db:"role"`
	StartDate      string      `json:"start_date" db:"start_date"` // YYYY-MM-DD
	EndDate        null.String `json:"end_date" db:"end_date"`
	InternshipType string      `json:"internship_type" db:"internship_type"`
	SupervisorName string      `json:"supervisor_name" db:"supervisor_name"`
	Description    string      `json:"description" db:"description"`
	Skills         []string    `json:"skills" db:"skills"`
	CertificateURL null.String `json:"certificate_url" db:"certificate_url"`
	ProjectDetails string      `json:"project_details" db:"project_details"`
	Status         Status      `json:"status" db:"status"`
	ReviewNote     null.String `json:"review_note" db:"review_note"`
	ReviewedAt     null.Time   `json:"reviewed_at" db:"reviewed_at"`
	SubmittedAt    time.Time   `json:"submitted_at" db:"submitted_at"` // UTC
}

type InternshipForm struct {
	StudentName    string `form:"studentName" validate:"required,notblank,max=255"`
	Department     string `form:"department" validate:"required,notblank,max=100"`
	Semester       int    `form:"semester" validate:"required,min=1,max=12"`
	CompanyName    string `form:"companyName" validate:"required,notblank,max=255"`
	Role           string `form:"role" validate:"required,notblank,max=255"`
	StartDate      string `form:"startDate" validate:"required,datetime=2006-01-02"`
	EndDate        string `form:"endDate" validate:"omitempty,datetime=2006-01-02"`
	InternshipType string `form:"internshipType" validate:"required,notblank,max=100"`
	SupervisorName string `form:"supervisorName" validate:"max=255"`
	Description    string `form:"description"`
	Skills         string `form:"skills"` // comma separated
	ProjectDetails string `form:"projectDetails"`
}

func (f *InternshipForm) Clean() {
	f.StudentName = core.CleanString(f.StudentName)
	f.Department = core.CleanString(f.Department)
	f.CompanyName = core.CleanString(f.CompanyName)
	f.Role = core.CleanString(f.Role)
	f.StartDate = core.CleanString(f.StartDate)
	f.EndDate = core.CleanString(f.EndDate)
	f.InternshipType = core.CleanString(f.InternshipType)
	f.SupervisorName = core.CleanString(f.SupervisorName)
	f.Description = core.CleanString(f.Description)
	f.ProjectDetails = core.CleanString(f.ProjectDetails)
}

// SkillList splits the comma separated skills, dropping blanks.
func (f *InternshipForm) SkillList() []string {
	skills := make([]string, 0)
	for _, s := range strings.Split(f.Skills, ",") {
		if s = strings.TrimSpace(s); s != "" {
			skills = append(skills, s)
		}
	}
	return skills
}

// Submissions groups both kinds of submissions, newest first.
type Submissions struct {
	Research    []ResearchSubmission   `json:"research"`
	Internships []InternshipSubmission `json:"internships"`
}

type SubmissionFilter struct {
	RegNo  string
	Status Status
}

type MonthCount struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}

type SubmissionMonthCount struct {
	Month           string `json:"month"`
	ResearchCount   int    `json:"researchCount"`
	InternshipCount int    `json:"internshipCount"`
}

// Source is a table the monthly statistics are counted on.
type Source string

const (
	SourceAchievements Source = "achievement"
	SourceResearch     Source = "research_submission"
	SourceInternships  Source = "internship_submission"
)
