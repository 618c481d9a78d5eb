package trapper

import (
	"time"
)

// Location is a geographic place where cameras are deployed.
type Location struct {
	PK               int         `json:"pk"                         yaml:"pk"`
	Name             *string     `json:"name,omitempty"             yaml:"name,omitempty"`
	LocationID       string      `json:"location_id"                yaml:"location_id"`
	Description      *string     `json:"description,omitempty"      yaml:"description,omitempty"`
	DateCreated      time.Time   `json:"date_created"               yaml:"date_created"`
	IsPublic         bool        `json:"is_public"                  yaml:"is_public"`
	Coordinates      Coordinates `json:"coordinates"                yaml:"coordinates"`
	Owner            string      `json:"owner"                      yaml:"owner"`
	OwnerProfile     *string     `json:"owner_profile,omitempty"    yaml:"owner_profile,omitempty"`
	City             *string     `json:"city,omitempty"             yaml:"city,omitempty"`
	County           *string     `json:"county,omitempty"           yaml:"county,omitempty"`
	State            *string     `json:"state,omitempty"            yaml:"state,omitempty"`
	Country          *string     `json:"country,omitempty"          yaml:"country,omitempty"`
	ResearchProject  *string     `json:"research_project,omitempty" yaml:"research_project,omitempty"`
	Timezone         *string     `json:"timezone,omitempty"         yaml:"timezone,omitempty"`
	UpdateData       *string     `json:"update_data,omitempty"      yaml:"update_data,omitempty"`
	DeleteData       *string     `json:"delete_data,omitempty"      yaml:"delete_data,omitempty"`
}

// Deployment is one camera placement at a location for a period of time.
type Deployment struct {
	PK              int       `json:"pk"                         yaml:"pk"`
	DeploymentCode  string    `json:"deployment_code"            yaml:"deployment_code"`
	DeploymentID    string    `json:"deployment_id"              yaml:"deployment_id"`
	Location        int       `json:"location"                   yaml:"location"`
	LocationID      string    `json:"location_id"                yaml:"location_id"`
	StartDate       time.Time `json:"start_date"                 yaml:"start_date"`
	EndDate         time.Time `json:"end_date"                   yaml:"end_date"`
	Owner           string    `json:"owner"                      yaml:"owner"`
	OwnerProfile    *string   `json:"owner_profile,omitempty"    yaml:"owner_profile,omitempty"`
	ResearchProject *string   `json:"research_project,omitempty" yaml:"research_project,omitempty"`
	Tags            []string  `json:"tags"                       yaml:"tags"`
	CorrectSetup    bool      `json:"correct_setup"              yaml:"correct_setup"`
	CorrectTstamp   bool      `json:"correct_tstamp"             yaml:"correct_tstamp"`
	DetailData      *string   `json:"detail_data,omitempty"      yaml:"detail_data,omitempty"`
	UpdateData      *string   `json:"update_data,omitempty"      yaml:"update_data,omitempty"`
	DeleteData      *string   `json:"delete_data,omitempty"      yaml:"delete_data,omitempty"`
}

// ProjectRole grants a user roles on a project or collection.
type ProjectRole struct {
	User     string   `json:"user"               yaml:"user"`
	Username string   `json:"username,omitempty" yaml:"username,omitempty"`
	Profile  string   `json:"profile"            yaml:"profile"`
	Roles    []string `json:"roles"              yaml:"roles"`
}

// ResearchProject groups locations, deployments and collections.
type ResearchProject struct {
	PK           int           `json:"pk"                    yaml:"pk"`
	Name         string        `json:"name"                  yaml:"name"`
	Owner        string        `json:"owner"                 yaml:"owner"`
	OwnerProfile string        `json:"owner_profile"         yaml:"owner_profile"`
	Acronym      string        `json:"acronym"               yaml:"acronym"`
	Keywords     []string      `json:"keywords"              yaml:"keywords"`
	DateCreated  time.Time     `json:"date_created"          yaml:"date_created"`
	ProjectRoles []ProjectRole `json:"project_roles"         yaml:"project_roles"`
	Status       *bool         `json:"status,omitempty"      yaml:"status,omitempty"`
	UpdateData   *string       `json:"update_data,omitempty" yaml:"update_data,omitempty"`
	DetailData   *string       `json:"detail_data,omitempty" yaml:"detail_data,omitempty"`
	DeleteData   *string       `json:"delete_data,omitempty" yaml:"delete_data,omitempty"`
}

// ClassificationProject is where media of a research project get classified.
type ClassificationProject struct {
	PK                   int           `json:"pk"                     yaml:"pk"`
	Name                 string        `json:"name"                   yaml:"name"`
	Owner                string        `json:"owner"                  yaml:"owner"`
	OwnerProfile         string        `json:"owner_profile"          yaml:"owner_profile"`
	Classificator        int           `json:"classificator"          yaml:"classificator"`
	ResearchProject      string        `json:"research_project"       yaml:"research_project"`
	Status               string        `json:"status"                 yaml:"status"`
	IsActive             bool          `json:"is_active"              yaml:"is_active"`
	ProjectRoles         []ProjectRole `json:"project_roles"          yaml:"project_roles"`
	ClassificatorRemoved bool          `json:"classificator_removed"  yaml:"classificator_removed"`
	UpdateData           string        `json:"update_data"            yaml:"update_data"`
	DetailData           string        `json:"detail_data"            yaml:"detail_data"`
	DeleteData           string        `json:"delete_data"            yaml:"delete_data"`
}

// Classificator defines the attributes collected when classifying media.
type Classificator struct {
	PK                int                       `json:"pk"                            yaml:"pk"`
	Name              string                    `json:"name"                          yaml:"name"`
	Owner             string                    `json:"owner"                         yaml:"owner"`
	OwnerProfile      string                    `json:"owner_profile"                 yaml:"owner_profile"`
	UpdatedDate       string                    `json:"updated_date"                  yaml:"updated_date"`
	PredefinedAttrs   map[string]map[string]any `json:"predefined_attrs"              yaml:"predefined_attrs"`
	StaticAttrsOrder  *string                   `json:"static_attrs_order,omitempty"  yaml:"static_attrs_order,omitempty"`
	CustomAttrs       map[string]map[string]any `json:"custom_attrs"                  yaml:"custom_attrs"`
	DynamicAttrsOrder *string                   `json:"dynamic_attrs_order,omitempty" yaml:"dynamic_attrs_order,omitempty"`
	Description       *string                   `json:"description,omitempty"         yaml:"description,omitempty"`
	UpdateData        *string                   `json:"update_data,omitempty"         yaml:"update_data,omitempty"`
	DetailData        *string                   `json:"detail_data,omitempty"         yaml:"detail_data,omitempty"`
	DeleteData        *string                   `json:"delete_data,omitempty"         yaml:"delete_data,omitempty"`
}

// Collection is a set of resources. The collection endpoints of research and
// classification projects return the project-scoped fields as well.
type Collection struct {
	PK              int        `json:"pk"                         yaml:"pk"`
	CollectionPK    *int       `json:"collection_pk,omitempty"    yaml:"collection_pk,omitempty"`
	Name            string     `json:"name"                       yaml:"name"`
	Owner           *string    `json:"owner,omitempty"            yaml:"owner,omitempty"`
	OwnerProfile    *string    `json:"owner_profile,omitempty"    yaml:"owner_profile,omitempty"`
	Description     *string    `json:"description,omitempty"      yaml:"description,omitempty"`
	Status          *string    `json:"status,omitempty"           yaml:"status,omitempty"`
	DateCreated     *time.Time `json:"date_created,omitempty"     yaml:"date_created,omitempty"`
	IsActive        *bool      `json:"is_active,omitempty"        yaml:"is_active,omitempty"`
	ApprovedCount   *int       `json:"approved_count,omitempty"   yaml:"approved_count,omitempty"`
	ClassifiedCount *int       `json:"classified_count,omitempty" yaml:"classified_count,omitempty"`
	TotalCount      *int       `json:"total_count,omitempty"      yaml:"total_count,omitempty"`
	ClassifyData    *string    `json:"classify_data,omitempty"    yaml:"classify_data,omitempty"`
	UpdateData      *string    `json:"update_data,omitempty"      yaml:"update_data,omitempty"`
	DetailData      *string    `json:"detail_data,omitempty"      yaml:"detail_data,omitempty"`
	DeleteData      *string    `json:"delete_data,omitempty"      yaml:"delete_data,omitempty"`
}

// Resource is a stored image or video.
type Resource struct {
	PK                  int       `json:"pk"                              yaml:"pk"`
	Name                string    `json:"name,omitempty"                  yaml:"name,omitempty"`
	Owner               string    `json:"owner,omitempty"                 yaml:"owner,omitempty"`
	OwnerProfile        string    `json:"owner_profile,omitempty"         yaml:"owner_profile,omitempty"`
	ResourceType        string    `json:"resource_type"                   yaml:"resource_type"`
	Deployment          *string   `json:"deployment,omitempty"            yaml:"deployment,omitempty"`
	DateRecorded        time.Time `json:"date_recorded"                   yaml:"date_recorded"`
	ObservationType     []string  `json:"observation_type,omitempty"      yaml:"observation_type,omitempty"`
	Species             []string  `json:"species,omitempty"               yaml:"species,omitempty"`
	Tags                []string  `json:"tags"                            yaml:"tags"`
	URL                 string    `json:"url,omitempty"                   yaml:"url,omitempty"`
	URLOriginal         string    `json:"url_original,omitempty"          yaml:"url_original,omitempty"`
	Mime                string    `json:"mime,omitempty"                  yaml:"mime,omitempty"`
	ThumbnailURL        string    `json:"thumbnail_url"                   yaml:"thumbnail_url"`
	DateRecordedCorrect bool      `json:"date_recorded_correct,omitempty" yaml:"date_recorded_correct,omitempty"`
	UpdateData          *string   `json:"update_data,omitempty"           yaml:"update_data,omitempty"`
	DetailData          *string   `json:"detail_data,omitempty"           yaml:"detail_data,omitempty"`
	DeleteData          *string   `json:"delete_data,omitempty"           yaml:"delete_data,omitempty"`
}

// Media is a media row of a classification project in Camtrap DP layout.
type Media struct {
	MediaID       int       `json:"mediaID"                 yaml:"mediaID"`
	DeploymentID  string    `json:"deploymentID"            yaml:"deploymentID"`
	CaptureMethod string    `json:"captureMethod"           yaml:"captureMethod"`
	Timestamp     time.Time `json:"timestamp"               yaml:"timestamp"`
	FilePath      string    `json:"filePath"                yaml:"filePath"`
	FilePublic    bool      `json:"filePublic"              yaml:"filePublic"`
	FileName      string    `json:"fileName"                yaml:"fileName"`
	FileMediatype string    `json:"fileMediatype"           yaml:"fileMediatype"`
	ExifData      *string   `json:"exifData,omitempty"      yaml:"exifData,omitempty"`
	Favorite      bool      `json:"favorite"                yaml:"favorite"`
	MediaComments *string   `json:"mediaComments,omitempty" yaml:"mediaComments,omitempty"`
}

// Observation holds the columns shared by both observation result layouts.
type Observation struct {
	ObservationID             int        `json:"observationID"                       yaml:"observationID"`
	DeploymentID              string     `json:"deploymentID"                        yaml:"deploymentID"`
	MediaID                   *int       `json:"mediaID,omitempty"                   yaml:"mediaID,omitempty"`
	EventID                   string     `json:"eventID"                             yaml:"eventID"`
	EventStart                time.Time  `json:"eventStart"                          yaml:"eventStart"`
	EventEnd                  time.Time  `json:"eventEnd"                            yaml:"eventEnd"`
	ObservationLevel          string     `json:"observationLevel"                    yaml:"observationLevel"`
	ObservationType           string     `json:"observationType"                     yaml:"observationType"`
	CameraSetupType           *string    `json:"cameraSetupType,omitempty"           yaml:"cameraSetupType,omitempty"`
	ScientificName            *string    `json:"scientificName,omitempty"            yaml:"scientificName,omitempty"`
	Count                     *int       `json:"count,omitempty"                     yaml:"count,omitempty"`
	LifeStage                 *string    `json:"lifeStage,omitempty"                 yaml:"lifeStage,omitempty"`
	Sex                       *string    `json:"sex,omitempty"                       yaml:"sex,omitempty"`
	Behavior                  *string    `json:"behavior,omitempty"                  yaml:"behavior,omitempty"`
	IndividualID              *string    `json:"individualID,omitempty"              yaml:"individualID,omitempty"`
	IndividualPositionRadius  *string    `json:"individualPositionRadius,omitempty"  yaml:"individualPositionRadius,omitempty"`
	IndividualPositionAngle   *string    `json:"individualPositionAngle,omitempty"   yaml:"individualPositionAngle,omitempty"`
	IndividualSpeed           *string    `json:"individualSpeed,omitempty"           yaml:"individualSpeed,omitempty"`
	ClassificationMethod      *string    `json:"classificationMethod,omitempty"      yaml:"classificationMethod,omitempty"`
	ClassifiedBy              *string    `json:"classifiedBy,omitempty"              yaml:"classifiedBy,omitempty"`
	ClassificationTimestamp   *time.Time `json:"classificationTimestamp,omitempty"   yaml:"classificationTimestamp,omitempty"`
	ClassificationProbability *float64   `json:"classificationProbability,omitempty" yaml:"classificationProbability,omitempty"`
	ObservationTags           *string    `json:"observationTags,omitempty"           yaml:"observationTags,omitempty"`
	ObservationComments       *string    `json:"observationComments,omitempty"       yaml:"observationComments,omitempty"`
}

// ObservationTrapper is an observation row in Trapper's native layout
// (camtrapdp=False).
type ObservationTrapper struct {
	Observation `yaml:",inline"`

	CountNew    *int    `json:"countNew,omitempty"    yaml:"countNew,omitempty"`
	EnglishName *string `json:"englishName,omitempty" yaml:"englishName,omitempty"`
	BBoxes      BBoxes  `json:"bboxes,omitempty"      yaml:"bboxes,omitempty"`
	ID          *string `json:"_id,omitempty"         yaml:"_id,omitempty"`
}

// ObservationCamtrapDP is an observation row in Camtrap DP layout
// (camtrapdp=True).
type ObservationCamtrapDP struct {
	Observation `yaml:",inline"`

	BBoxX      *float64 `json:"bboxX,omitempty"      yaml:"bboxX,omitempty"`
	BBoxY      *float64 `json:"bboxY,omitempty"      yaml:"bboxY,omitempty"`
	BBoxWidth  *float64 `json:"bboxWidth,omitempty"  yaml:"bboxWidth,omitempty"`
	BBoxHeight *float64 `json:"bboxHeight,omitempty" yaml:"bboxHeight,omitempty"`
}

// ResourceRef is the resource summary embedded in classification rows.
type ResourceRef struct {
	PK           int        `json:"pk"                      yaml:"pk"`
	Name         string     `json:"name"                    yaml:"name"`
	ResourceType string     `json:"resource_type"           yaml:"resource_type"`
	ThumbnailURL *string    `json:"thumbnail_url,omitempty" yaml:"thumbnail_url,omitempty"`
	URL          *string    `json:"url,omitempty"           yaml:"url,omitempty"`
	Mime         *string    `json:"mime,omitempty"          yaml:"mime,omitempty"`
	DateRecorded *time.Time `json:"date_recorded,omitempty" yaml:"date_recorded,omitempty"`
	Deployment   *int       `json:"deployment,omitempty"    yaml:"deployment,omitempty"`
	DeploymentID *string    `json:"deployment_id,omitempty" yaml:"deployment_id,omitempty"`
}

// DynamicAttr is one per-observation attribute set of a classification.
type DynamicAttr struct {
	ObservationType          *string `json:"observation_type,omitempty"          yaml:"observation_type,omitempty"`
	Species                  *string `json:"species,omitempty"                   yaml:"species,omitempty"`
	Count                    *string `json:"count,omitempty"                     yaml:"count,omitempty"`
	ClassificationConfidence *string `json:"classification_confidence,omitempty" yaml:"classification_confidence,omitempty"`
}

// Classification is the classification state of one resource.
type Classification struct {
	PK                    int            `json:"pk"                      yaml:"pk"`
	Resource              ResourceRef    `json:"resource"                yaml:"resource"`
	Collection            int            `json:"collection"              yaml:"collection"`
	UpdatedAt             time.Time      `json:"updated_at"              yaml:"updated_at"`
	IsSetup               bool           `json:"is_setup"                yaml:"is_setup"`
	StaticAttrs           map[string]any `json:"static_attrs"            yaml:"static_attrs"`
	DynamicAttrs          []DynamicAttr  `json:"dynamic_attrs"           yaml:"dynamic_attrs"`
	Status                bool           `json:"status"                  yaml:"status"`
	StatusAI              bool           `json:"status_ai"               yaml:"status_ai"`
	Classified            bool           `json:"classified"              yaml:"classified"`
	ClassifiedAI          bool           `json:"classified_ai"           yaml:"classified_ai"`
	ClassificationProject string         `json:"classification_project"  yaml:"classification_project"`
	BBoxes                *bool          `json:"bboxes,omitempty"        yaml:"bboxes,omitempty"`
	DetailData            *string        `json:"detail_data,omitempty"   yaml:"detail_data,omitempty"`
	DeleteData            *string        `json:"delete_data,omitempty"   yaml:"delete_data,omitempty"`
	ClassifyData          *string        `json:"classify_data,omitempty" yaml:"classify_data,omitempty"`
	UpdateData            *string        `json:"update_data,omitempty"   yaml:"update_data,omitempty"`
}

// UserClassification is a classification made by a person.
type UserClassification struct {
	PK             int               `json:"pk"                      yaml:"pk"`
	Owner          string            `json:"owner"                   yaml:"owner"`
	OwnerProfile   *string           `json:"owner_profile,omitempty" yaml:"owner_profile,omitempty"`
	Classification int               `json:"classification"          yaml:"classification"`
	Resource       ResourceRef       `json:"resource"                yaml:"resource"`
	Collection     int               `json:"collection"              yaml:"collection"`
	UpdatedAt      time.Time         `json:"updated_at"              yaml:"updated_at"`
	CreatedAt      time.Time         `json:"created_at"              yaml:"created_at"`
	Approved       bool              `json:"approved"                yaml:"approved"`
	StaticAttrs    map[string]string `json:"static_attrs"            yaml:"static_attrs"`
	DynamicAttrs   []DynamicAttr     `json:"dynamic_attrs"           yaml:"dynamic_attrs"`
	DetailData     *string           `json:"detail_data,omitempty"   yaml:"detail_data,omitempty"`
	DeleteData     *string           `json:"delete_data,omitempty"   yaml:"delete_data,omitempty"`
}

// AIClassification is a classification produced by an AI provider.
type AIClassification struct {
	UserClassification `yaml:",inline"`

	AIProvider *string `json:"ai_provider,omitempty" yaml:"ai_provider,omitempty"`
}

// Package is the outcome of a data package generation request.
type Package struct {
	Package string `json:"package" yaml:"package"`
	Errors  any    `json:"errors"  yaml:"errors"`
}
