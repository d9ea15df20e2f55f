package models

// Phone is a single catalog entry. Phones are loaded once and never mutated.
type Phone struct {
	ID          string    `json:"id" yaml:"id"`
	Name        string    `json:"name" yaml:"name"`
	Brand       string    `json:"brand" yaml:"brand"`
	Model       string    `json:"model" yaml:"model"`
	Image       string    `json:"image" yaml:"image"`
	ReleaseDate Date      `json:"releaseDate" yaml:"releaseDate"`
	Category    Category  `json:"category" yaml:"category"`
	Specs       Specs     `json:"specs" yaml:"specs"`
	Prices      Prices    `json:"prices" yaml:"prices"`
	Shops       []Shop    `json:"shops" yaml:"shops"`
	Ratings     Ratings   `json:"ratings" yaml:"ratings"`
	Reviews     []Review  `json:"reviews,omitempty" yaml:"reviews"`
	Articles    []Article `json:"articles,omitempty" yaml:"articles"`
	Features    []string  `json:"features,omitempty" yaml:"features"`
	Pros        []string  `json:"pros,omitempty" yaml:"pros"`
	Cons        []string  `json:"cons,omitempty" yaml:"cons"`
}

// Specs is the hardware sheet of a phone.
type Specs struct {
	Display      DisplaySpec    `json:"display" yaml:"display"`
	Processor    ProcessorSpec  `json:"processor" yaml:"processor"`
	RAM          int            `json:"ram" yaml:"ram"`         // GB
	Storage      []int          `json:"storage" yaml:"storage"` // GB options
	Camera       CameraSpec     `json:"camera" yaml:"camera"`
	Battery      BatterySpec    `json:"battery" yaml:"battery"`
	OS           string         `json:"os" yaml:"os"`
	Dimensions   DimensionsSpec `json:"dimensions" yaml:"dimensions"`
	Connectivity []string       `json:"connectivity" yaml:"connectivity"`
	Security     []string       `json:"security" yaml:"security"`
	Colors       []string       `json:"colors" yaml:"colors"`
}

type DisplaySpec struct {
	Size        float64 `json:"size" yaml:"size"` // inches
	Resolution  string  `json:"resolution" yaml:"resolution"`
	Type        string  `json:"type" yaml:"type"`
	RefreshRate int     `json:"refreshRate" yaml:"refreshRate"` // Hz
	Brightness  int     `json:"brightness" yaml:"brightness"`   // nits
}

type ProcessorSpec struct {
	Name  string `json:"name" yaml:"name"`
	Cores int    `json:"cores" yaml:"cores"`
	Speed string `json:"speed" yaml:"speed"`
	GPU   string `json:"gpu" yaml:"gpu"`
}

type CameraSpec struct {
	Rear struct {
		Megapixels int      `json:"megapixels" yaml:"megapixels"`
		Aperture   string   `json:"aperture" yaml:"aperture"`
		Features   []string `json:"features" yaml:"features"`
	} `json:"rear" yaml:"rear"`
	Front struct {
		Megapixels int    `json:"megapixels" yaml:"megapixels"`
		Aperture   string `json:"aperture" yaml:"aperture"`
	} `json:"front" yaml:"front"`
}

type BatterySpec struct {
	Capacity     int    `json:"capacity" yaml:"capacity"` // mAh
	FastCharging string `json:"fastCharging" yaml:"fastCharging"`
	Wireless     bool   `json:"wireless" yaml:"wireless"`
}

type DimensionsSpec struct {
	Height float64 `json:"height" yaml:"height"`
	Width  float64 `json:"width" yaml:"width"`
	Depth  float64 `json:"depth" yaml:"depth"`
	Weight float64 `json:"weight" yaml:"weight"`
}

// Shop is a retailer offer for a phone. Offers are display-only.
type Shop struct {
	Name     string  `json:"name" yaml:"name"`
	Price    float64 `json:"price" yaml:"price"`
	Currency string  `json:"currency" yaml:"currency"`
	URL      string  `json:"url" yaml:"url"`
	InStock  bool    `json:"inStock" yaml:"inStock"`
}

// Ratings holds editorial sub-scores on a 0-10 scale.
type Ratings struct {
	Overall     float64 `json:"overall" yaml:"overall"`
	Display     float64 `json:"display" yaml:"display"`
	Performance float64 `json:"performance" yaml:"performance"`
	Camera      float64 `json:"camera" yaml:"camera"`
	Battery     float64 `json:"battery" yaml:"battery"`
	Design      float64 `json:"design" yaml:"design"`
	Value       float64 `json:"value" yaml:"value"`
	UserCount   int     `json:"userCount" yaml:"userCount"`
}

// RatingFeature names one sub-score of Ratings.
type RatingFeature string

const (
	FeatureOverall     RatingFeature = "overall"
	FeatureDisplay     RatingFeature = "display"
	FeaturePerformance RatingFeature = "performance"
	FeatureCamera      RatingFeature = "camera"
	FeatureBattery     RatingFeature = "battery"
	FeatureDesign      RatingFeature = "design"
	FeatureValue       RatingFeature = "value"
)

// Score returns the sub-score for f. The second result is false for an
// unknown feature.
func (r Ratings) Score(f RatingFeature) (float64, bool) {
	switch f {
	case FeatureOverall:
		return r.Overall, true
	case FeatureDisplay:
		return r.Display, true
	case FeaturePerformance:
		return r.Performance, true
	case FeatureCamera:
		return r.Camera, true
	case FeatureBattery:
		return r.Battery, true
	case FeatureDesign:
		return r.Design, true
	case FeatureValue:
		return r.Value, true
	}
	return 0, false
}

type Review struct {
	ID      string  `json:"id" yaml:"id"`
	Author  string  `json:"author" yaml:"author"`
	Rating  float64 `json:"rating" yaml:"rating"`
	Title   string  `json:"title" yaml:"title"`
	Content string  `json:"content" yaml:"content"`
	Date    string  `json:"date" yaml:"date"`
	Helpful int     `json:"helpful" yaml:"helpful"`
}

type Article struct {
	ID      string `json:"id" yaml:"id"`
	Title   string `json:"title" yaml:"title"`
	Content string `json:"content" yaml:"content"`
	Author  string `json:"author" yaml:"author"`
	Date    string `json:"date" yaml:"date"`
	Image   string `json:"image" yaml:"image"`
}
