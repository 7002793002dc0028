package parser

import (
	"context"
	"fmt"
	"hash/fnv"
	"math/rand"
	"net/url"
	"strings"
	"time"

	"github.com/maxaizer/ghost-detector/internal/entities"
	"gorm.io/datatypes"
)

// JobData is what extraction hands to scoring and persistence.
type JobData struct {
	JobTitle string
	Company  string
	Location *string
	Platform entities.Platform
	Metadata *entities.ParsingMetadata
}

// Client is the placeholder extraction collaborator: platform detection
// is real, everything else is simulated from a hash of the URL so the
// same posting always extracts the same way. A real parser would slot
// in behind the same method set.
type Client struct {
	rand *rand.Rand
}

func NewClient() *Client {
	return &Client{rand: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

var mockTitles = []string{
	"Senior Software Engineer", "Product Manager", "Data Scientist",
	"Frontend Developer", "DevOps Engineer", "UX Designer",
	"Customer Success Manager", "Sales Development Representative",
	"Marketing Coordinator", "Business Analyst",
}

var mockCompanies = []string{
	"TechCorp", "InnovateCo", "DataDynamics", "CloudFirst",
	"StartupXYZ", "Enterprise Solutions", "Digital Ventures",
	"AI Technologies", "Growth Company", "Innovation Labs",
}

var mockLocations = []string{
	"San Francisco, CA", "New York, NY", "Remote", "Seattle, WA",
	"Austin, TX", "Boston, MA", "Los Angeles, CA", "Chicago, IL",
}

func (c *Client) Extract(_ context.Context, rawURL string) (*JobData, error) {

	if _, err := url.ParseRequestURI(rawURL); err != nil {
		return nil, fmt.Errorf("%w: invalid job url: %v", entities.ErrValidation, err)
	}

	platform := DetectPlatform(rawURL)

	hash := fnv.New32a()
	_, _ = hash.Write([]byte(rawURL))
	seed := int(hash.Sum32())

	title := mockTitles[seed%len(mockTitles)]
	company := mockCompanies[seed%len(mockCompanies)]
	location := mockLocations[seed%len(mockLocations)]

	rawTitle := fmt.Sprintf("%s - %s | %s", title, company, capitalize(string(platform)))

	return &JobData{
		JobTitle: title,
		Company:  company,
		Location: &location,
		Platform: platform,
		Metadata: &entities.ParsingMetadata{
			RawTitle:            &rawTitle,
			StructuredDataFound: c.rand.Intn(2) == 0,
			MetaTagsCount:       8 + c.rand.Intn(18),
			ConfidenceScores: datatypes.JSONMap{
				"title":   0.80 + c.rand.Float64()*0.15,
				"company": 0.85 + c.rand.Float64()*0.10,
				"overall": 0.75 + c.rand.Float64()*0.20,
			},
			ExtractionTimestamp: time.Now(),
		},
	}, nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// DetectPlatform classifies a posting URL by its host, falling back to
// career-page path conventions before giving up with "other".
func DetectPlatform(rawURL string) entities.Platform {

	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Hostname() == "" {
		return entities.PlatformOther
	}

	host := strings.ToLower(parsed.Hostname())
	path := strings.ToLower(parsed.Path)

	switch {
	case strings.Contains(host, "linkedin"):
		return entities.PlatformLinkedIn
	case strings.Contains(host, "indeed"):
		return entities.PlatformIndeed
	case strings.Contains(host, "glassdoor"):
		return entities.PlatformGlassdoor
	case strings.HasPrefix(host, "careers.") ||
		strings.Contains(path, "/careers") || strings.Contains(path, "/jobs"):
		return entities.PlatformCompany
	default:
		return entities.PlatformOther
	}
}
