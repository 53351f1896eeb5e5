package contribution

import (
	"context"
	"fmt"
	"net/mail"
	"path"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/edugrade/portal/core"
	"github.com/edugrade/portal/core/account"
	"github.com/edugrade/portal/core/activity"
)

var (
	NowFunc = time.Now // mockable

	// errors
	ErrAchievementNotFound = core.NewNotFoundError("Achievement not found")
	ErrSubmissionNotFound  = core.NewNotFoundError("Submission not found")
	ErrFileRequired        = core.NewValidationError(errors.New("File required"))
	ErrRegNoRequired       = core.NewValidationError(errors.New("regNo is required"))
	ErrInvalidKind         = core.NewValidationError(errors.New("kind must be research or internship"))
	ErrAlreadyReviewed     = core.NewConflictError("Submission has already been reviewed")
)

type (
	Repository interface {
		CreateAchievement(ctx context.Context, a Achievement) (Achievement, error)
		GetAchievement(ctx context.Context, id string) (Achievement, error)
		UpdateAchievement(ctx context.Context, a Achievement) (Achievement, error)
		DeleteAchievement(ctx context.Context, id string) error
		// ListAchievements returns the achievements of regNo (all when empty), newest first.
		ListAchievements(ctx context.Context, regNo string) ([]Achievement, error)

		CreateResearch(ctx context.Context, r ResearchSubmission) (ResearchSubmission, error)
		GetResearch(ctx context.Context, id string) (ResearchSubmission, error)
		// ReviewResearch stores the review of r only while the stored row is still pending;
		// ErrAlreadyReviewed otherwise.
		ReviewResearch(ctx context.Context, r ResearchSubmission) (ResearchSubmission, error)
		ListResearch(ctx context.Context, filter SubmissionFilter) ([]ResearchSubmission, error)

		CreateInternship(ctx context.Context, i InternshipSubmission) (InternshipSubmission, error)
		GetInternship(ctx context.Context, id string) (InternshipSubmission, error)
		ReviewInternship(ctx context.Context, i InternshipSubmission) (InternshipSubmission, error)
		ListInternships(ctx context.Context, filter SubmissionFilter) ([]InternshipSubmission, error)

		// MonthlyCounts counts the rows of src created by regNo in year, indexed by month (0 = January).
		MonthlyCounts(ctx context.Context, src Source, regNo string, year int) ([12]int, error)
	}

	// StudentDirectory finds the account of a student, to email them.
	StudentDirectory interface {
		GetStudent(ctx context.Context, regNo string) (account.Student, error)
	}

	Service struct {
		repo     Repository
		files    core.FileStorage
		students StudentDirectory
		activity *activity.Service
		mailSvc  core.EmailService
		validate *validator.Validate
		logger   core.Logger
	}

	Deps struct {
		Repo     Repository
		Files    core.FileStorage
		Students StudentDirectory
		Activity *activity.Service
		Mail     core.EmailService
		Validate *validator.Validate
		Logger   core.Logger
	}
)

func NewService(deps Deps) *Service {
	return &Service{
		repo:     deps.Repo,
		files:    deps.Files,
		students: deps.Students,
		activity: deps.Activity,
		mailSvc:  deps.Mail,
		validate: deps.Validate,
		logger:   deps.Logger,
	}
}

// Achievements

func (svc *Service) SubmitAchievement(ctx context.Context, regNo string, form AchievementForm, file *File) (Achievement, error) {
	form.Clean()
	if err := svc.validate.Struct(form); err != nil {
		return Achievement{}, err
	}
	if regNo = core.CleanString(regNo); regNo == "" {
		return Achievement{}, ErrRegNoRequired
	}
	if file == nil {
		return Achievement{}, ErrFileRequired
	}

	url, err := svc.files.Save(ctx, bucketAchievements, file.Filename, file.ContentType, file.Content)
	if err != nil {
		return Achievement{}, errors.Wrap(err, "saving achievement file")
	}
	now := NowFunc().UTC()
	ach, err := svc.repo.CreateAchievement(ctx, Achievement{
		ID:             uuid.NewString(),
		RegNo:          regNo,
		Type:           form.Type,
		Date:           form.Date,
		Content:        form.Content,
		Location:       form.Location,
		UniversityName: optString(form.UniversityName),
		FileURL:        url,
		SubmittedAt:    now,
		CreatedAt:      now,
	})
	if err != nil {
		svc.deleteFile(ctx, url)
		return Achievement{}, errors.Wrap(err, "creating achievement")
	}

	svc.activity.Notify(ctx, activity.Event{
		Kind:     activity.KindAchievementSubmitted,
		Audience: activity.AudienceTeachers,
		RegNo:    regNo,
		Message:  fmt.Sprintf("%s submitted an achievement: %s", regNo, ach.Type),
	})
	return ach, nil
}

func (svc *Service) ListAchievements(ctx context.Context, regNo string) ([]Achievement, error) {
	return svc.repo.ListAchievements(ctx, core.CleanString(regNo))
}

// UpdateAchievement replaces the fields of an achievement owned by regNo, and its file when one is given.
func (svc *Service) UpdateAchievement(ctx context.Context, id, regNo string, form AchievementForm, file *File) (Achievement, error) {
	form.Clean()
	if err := svc.validate.Struct(form); err != nil {
		return Achievement{}, err
	}
	ach, err := svc.ownedAchievement(ctx, id, regNo)
	if err != nil {
		return Achievement{}, err
	}

	oldURL := ""
	if file != nil {
		url, err := svc.files.Save(ctx, bucketAchievements, file.Filename, file.ContentType, file.Content)
		if err != nil {
			return Achievement{}, errors.Wrap(err, "saving achievement file")
		}
		oldURL, ach.FileURL = ach.FileURL, url
	}
	ach.Type = form.Type
	ach.Date = form.Date
	ach.Content = form.Content
	ach.Location = form.Location
	ach.UniversityName = optString(form.UniversityName)
	ach.SubmittedAt = NowFunc().UTC()

	if ach, err = svc.repo.UpdateAchievement(ctx, ach); err != nil {
		return Achievement{}, errors.Wrap(err, "updating achievement")
	}
	if oldURL != "" {
		svc.deleteFile(ctx, oldURL)
	}
	return ach, nil
}

func (svc *Service) DeleteAchievement(ctx context.Context, id, regNo string) error {
	ach, err := svc.ownedAchievement(ctx, id, regNo)
	if err != nil {
		return err
	}
	if err = svc.repo.DeleteAchievement(ctx, ach.ID); err != nil {
		return errors.Wrap(err, "deleting achievement")
	}
	svc.deleteFile(ctx, ach.FileURL)
	return nil
}

// ownedAchievement hides the achievements of other students behind a not found error.
func (svc *Service) ownedAchievement(ctx context.Context, id, regNo string) (Achievement, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Achievement{}, ErrAchievementNotFound
	}
	ach, err := svc.repo.GetAchievement(ctx, id)
	if err != nil {
		return Achievement{}, err
	}
	if ach.RegNo != core.CleanString(regNo) {
		return Achievement{}, ErrAchievementNotFound
	}
	return ach, nil
}

// Research & internships

func (svc *Service) SubmitResearch(ctx context.Context, regNo string, form ResearchForm, file *File) (ResearchSubmission, error) {
	form.Clean()
	if err := svc.validate.Struct(form); err != nil {
		return ResearchSubmission{}, err
	}
	if regNo = core.CleanString(regNo); regNo == "" {
		return ResearchSubmission{}, ErrRegNoRequired
	}

	var fileURL null.String
	if file != nil {
		url, err := svc.files.Save(ctx, bucketResearch, file.Filename, file.ContentType, file.Content)
		if err != nil {
			return ResearchSubmission{}, errors.Wrap(err, "saving research file")
		}
		fileURL = null.StringFrom(url)
	}
	res, err := svc.repo.CreateResearch(ctx, ResearchSubmission{
		ID:              uuid.NewString(),
		RegNo:           regNo,
		StudentName:     form.StudentName,
		Department:      form.Department,
		Semester:        form.Semester,
		Title:           form.Title,
		Domain:          form.Domain,
		PublicationType: form.PublicationType,
		PublisherName:   form.PublisherName,
		DOILink:         form.DOILink,
		Abstract:        form.Abstract,
		PublishedOn:     optString(form.PublishedOn),
		MentorName:      form.MentorName,
		Organization:    form.Organization,
		FileURL:         fileURL,
		Status:          StatusPending,
		SubmittedAt:     NowFunc().UTC(),
	})
	if err != nil {
		if fileURL.Valid {
			svc.deleteFile(ctx, fileURL.String)
		}
		return ResearchSubmission{}, errors.Wrap(err, "creating research submission")
	}

	svc.notifySubmitted(ctx, KindResearch, regNo, res.Title)
	return res, nil
}

func (svc *Service) SubmitInternship(ctx context.Context, regNo string, form InternshipForm, certificate *File) (InternshipSubmission, error) {
	form.Clean()
	if err := svc.validate.Struct(form); err != nil {
		return InternshipSubmission{}, err
	}
	if regNo = core.CleanString(regNo); regNo == "" {
		return InternshipSubmission{}, ErrRegNoRequired
	}

	var certURL null.String
	if certificate != nil {
		url, err := svc.files.Save(ctx, bucketInternshipCertifs, certificate.Filename, certificate.ContentType, certificate.Content)
		if err != nil {
			return InternshipSubmission{}, errors.Wrap(err, "saving internship certificate")
		}
		certURL = null.StringFrom(url)
	}
	intern, err := svc.repo.CreateInternship(ctx, InternshipSubmission{
		ID:             uuid.NewString(),
		RegNo:          regNo,
		StudentName:    form.StudentName,
		Department:     form.Department,
		Semester:       form.Semester,
		CompanyName:    form.CompanyName,
		Role:           form.Role,
		StartDate:      form.StartDate,
		EndDate:        optString(form.EndDate),
		InternshipType: form.InternshipType,
		SupervisorName: form.SupervisorName,
		Description:    form.Description,
		Skills:         form.SkillList(),
		CertificateURL: certURL,
		ProjectDetails: form.ProjectDetails,
		Status:         StatusPending,
		SubmittedAt:    NowFunc().UTC(),
	})
	if err != nil {
		if certURL.Valid {
			svc.deleteFile(ctx, certURL.String)
		}
		return InternshipSubmission{}, errors.Wrap(err, "creating internship submission")
	}

	svc.notifySubmitted(ctx, KindInternship, regNo, fmt.Sprintf("%s at %s", intern.Role, intern.CompanyName))
	return intern, nil
}

// Submissions lists both kinds of submissions matching filter. kind restricts the listing to one kind when set.
func (svc *Service) Submissions(ctx context.Context, kind Kind, filter SubmissionFilter) (Submissions, error) {
	if kind != "" && !kind.Valid() {
		return Submissions{}, ErrInvalidKind
	}
	filter.RegNo = core.CleanString(filter.RegNo)
	subs := Submissions{
		Research:    make([]ResearchSubmission, 0),
		Internships: make([]InternshipSubmission, 0),
	}

	var err error
	if kind == "" || kind == KindResearch {
		if subs.Research, err = svc.repo.ListResearch(ctx, filter); err != nil {
			return Submissions{}, errors.Wrap(err, "listing research submissions")
		}
	}
	if kind == "" || kind == KindInternship {
		if subs.Internships, err = svc.repo.ListInternships(ctx, filter); err != nil {
			return Submissions{}, errors.Wrap(err, "listing internship submissions")
		}
	}
	return subs, nil
}

// Review approves or rejects a pending submission, then lets the student know.
func (svc *Service) Review(ctx context.Context, kind Kind, id string, review Review) (interface{}, error) {
	if !kind.Valid() {
		return nil, ErrInvalidKind
	}
	review.Note = core.CleanString(review.Note)
	if err := svc.validate.Struct(review); err != nil {
		return nil, err
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrSubmissionNotFound
	}

	now := NowFunc().UTC()
	var (
		regNo, title string
		attachURL    string // the submitted document, sent back with the decision
		result       interface{}
	)
	switch kind {
	case KindResearch:
		res, err := svc.repo.GetResearch(ctx, id)
		if err != nil {
			return nil, err
		}
		if res.Status != StatusPending {
			return nil, ErrAlreadyReviewed
		}
		res.Status = review.Decision
		res.ReviewNote = optString(review.Note)
		res.ReviewedAt = null.TimeFrom(now)
		if res, err = svc.repo.ReviewResearch(ctx, res); err != nil {
			return nil, errors.Wrap(err, "reviewing research submission")
		}
		regNo, title, result = res.RegNo, res.Title, res
		attachURL = res.FileURL.String

	case KindInternship:
		intern, err := svc.repo.GetInternship(ctx, id)
		if err != nil {
			return nil, err
		}
		if intern.Status != StatusPending {
			return nil, ErrAlreadyReviewed
		}
		intern.Status = review.Decision
		intern.ReviewNote = optString(review.Note)
		intern.ReviewedAt = null.TimeFrom(now)
		if intern, err = svc.repo.ReviewInternship(ctx, intern); err != nil {
			return nil, errors.Wrap(err, "reviewing internship submission")
		}
		regNo, title, result = intern.RegNo, fmt.Sprintf("%s at %s", intern.Role, intern.CompanyName), intern
		attachURL = intern.CertificateURL.String
	}

	svc.activity.Notify(ctx, activity.Event{
		Kind:     activity.KindSubmissionReviewed,
		Audience: activity.StudentAudience(regNo),
		RegNo:    regNo,
		Message:  fmt.Sprintf("Your %s submission %q was %s", kind, title, review.Decision),
	})
	svc.emailReview(ctx, kind, regNo, title, attachURL, review)
	return result, nil
}

func (svc *Service) notifySubmitted(ctx context.Context, kind Kind, regNo, title string) {
	svc.activity.Notify(ctx, activity.Event{
		Kind:     activity.KindSubmissionSubmitted,
		Audience: activity.AudienceTeachers,
		RegNo:    regNo,
		Message:  fmt.Sprintf("%s submitted a %s: %s", regNo, kind, title),
	})
}

func (svc *Service) emailReview(ctx context.Context, kind Kind, regNo, title, attachURL string, review Review) {
	std, err := svc.students.GetStudent(ctx, regNo)
	if err != nil {
		if !core.IsNotFound(err) {
			svc.logger.Error(fmt.Sprintf("finding student %s: %v", regNo, err), err)
		}
		return
	}
	if std.Email == "" {
		return
	}
	msg := &core.EmailMessage{
		To:           []mail.Address{{Address: std.Email}},
		Subject:      fmt.Sprintf("Your %s submission was %s", kind, review.Decision),
		TemplateName: "submission_reviewed",
		TemplateData: map[string]string{
			"Kind":   string(kind),
			"Title":  title,
			"Status": string(review.Decision),
			"Note":   review.Note,
		},
	}
	if attachURL != "" {
		svc.attachFile(ctx, msg, attachURL)
	}
	svc.mailSvc.SendMessages(msg)
}

// attachFile adds the stored object of url to msg. A missing file only costs the attachment.
func (svc *Service) attachFile(ctx context.Context, msg *core.EmailMessage, url string) {
	r, err := svc.files.Open(ctx, url)
	if err != nil {
		svc.logger.Warn(fmt.Sprintf("opening %s for email: %v", url, err))
		return
	}
	defer func() { _ = r.Close() }()
	if err = msg.Attach(r, path.Base(url)); err != nil {
		svc.logger.Warn(fmt.Sprintf("attaching %s: %v", url, err))
	}
}

func (svc *Service) deleteFile(ctx context.Context, url string) {
	if err := svc.files.Delete(ctx, url); err != nil {
		svc.logger.Warn(fmt.Sprintf("deleting file %s: %v", url, err))
	}
}

func optString(s string) null.String {
	return null.NewString(s, s != "")
}
