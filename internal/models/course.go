package models

import "time"

// CourseLevel is the difficulty bucket a course is listed under
type CourseLevel string

const (
	CourseLevelBeginner     CourseLevel = "beginner"
	CourseLevelIntermediate CourseLevel = "intermediate"
	CourseLevelAdvanced     CourseLevel = "advanced"
)

// Course is a marketplace course as returned by the gateway. The client only
// holds transient per-view copies; the gateway owns the record.
type Course struct {
	ID                 string      `json:"id"`
	Title              string      `json:"title"`
	ShortDescription   string      `json:"shortDescription,omitempty"`
	Description        string      `json:"description,omitempty"`
	Instructor         string      `json:"instructor"`
	Category           string      `json:"category"`
	Level              CourseLevel `json:"level,omitempty"`
	Language           string      `json:"language,omitempty"`
	Price              float64     `json:"price"`
	DiscountPrice      float64     `json:"discountPrice,omitempty"`
	Rating             float64     `json:"rating,omitempty"`
	ReviewCount        int         `json:"reviewCount,omitempty"`
	EnrollmentCount    int         `json:"enrollmentCount,omitempty"`
	Duration           string      `json:"duration,omitempty"`
	TotalLectures      int         `json:"totalLectures,omitempty"`
	Thumbnail          string      `json:"thumbnail,omitempty"`
	PreviewVideo       string      `json:"previewVideo,omitempty"`
	IsNew              bool        `json:"isNew,omitempty"`
	IsBestseller       bool        `json:"isBestseller,omitempty"`
	CertificateOffered bool        `json:"certificateOffered,omitempty"`
	Requirements       []string    `json:"requirements,omitempty"`
	LearningOutcomes   []string    `json:"learningOutcomes,omitempty"`
	Sections           []Section   `json:"sections,omitempty"`
	Resources          []Resource  `json:"resources,omitempty"`
	CreatedAt          time.Time   `json:"createdAt,omitempty"`
}

// EffectivePrice returns the discount price when one is set, the list price
// otherwise. Enrollment must not proceed before this value is known.
func (c Course) EffectivePrice() float64 {
	if c.DiscountPrice > 0 && c.DiscountPrice < c.Price {
		return c.DiscountPrice
	}
	return c.Price
}

// Section is an ordered group of lessons within a course
type Section struct {
	ID      string   `json:"id"`
	Title   string   `json:"title"`
	Lessons []Lesson `json:"lessons,omitempty"`
}

// Lesson is a single playable unit within a section
type Lesson struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Duration string `json:"duration,omitempty"`
	Preview  bool   `json:"preview,omitempty"`
}

// Resource is a downloadable attachment on a course
type Resource struct {
	Title string `json:"title"`
	URL   string `json:"url"`
	Kind  string `json:"kind,omitempty"`
}

// CourseQuery carries the listing filters supported by the courses endpoint
type CourseQuery struct {
	Search   string
	Category string
	Level    CourseLevel
	Page     int
	Limit    int
}

// NewCourse is the payload for creating a course (instructor/admin authoring)
type NewCourse struct {
	Title            string      `json:"title" validate:"required,min=3,max=200"`
	ShortDescription string      `json:"shortDescription" validate:"max=300"`
	Description      string      `json:"description" validate:"required,min=20"`
	Category         string      `json:"category" validate:"required"`
	Level            CourseLevel `json:"level" validate:"omitempty,course_level"`
	Language         string      `json:"language,omitempty"`
	Price            float64     `json:"price" validate:"gte=0"`
	DiscountPrice    float64     `json:"discountPrice,omitempty" validate:"gte=0"`
	Thumbnail        string      `json:"thumbnail,omitempty" validate:"omitempty,url"`
}
