package record

// Validation limit constants
const (
	MaxTextLength     = 1000
	MaxFontNameLength = 100
	MaxColorLength    = 50
	MaxPointsInStroke = 10000
	MaxCoordinate     = 1000000
	MinCoordinate     = -1000000
	MaxStrokeSize     = 1000
	MaxFontSize       = 500
)

var AllowedShapeTypes = map[string]bool{
	"draw": true,
	"geo":  true,
	"line": true,
	"text": true,
	"note": true,
}

func schemaForShapeType(shapeType string) interface{} {
	switch shapeType {
	case "draw":
		return &DrawShapeData{}
	case "geo":
		return &GeoShapeData{}
	case "line":
		return &LineShapeData{}
	case "text":
		return &TextShapeData{}
	case "note":
		return &NoteShapeData{}
	default:
		return nil
	}
}

// =============================================================================
// Common Embedded Structs
// =============================================================================

// x,y canvas position plus rotation, shared by every shape payload
type Placement struct {
	X        float64 `json:"x" validate:"min=-1000000,max=1000000"`
	Y        float64 `json:"y" validate:"min=-1000000,max=1000000"`
	Rotation float64 `json:"rotation,omitempty" validate:"omitempty,min=-360,max=360"`
}

// stroke styling shared by drawable shape payloads
type StrokeStyle struct {
	Color   string  `json:"color,omitempty" validate:"omitempty,max=50"`
	Size    float64 `json:"size,omitempty" validate:"omitempty,min=0,max=1000"`
	Opacity float64 `json:"opacity,omitempty" validate:"omitempty,min=0,max=1"`
}

// single point in a freehand stroke or polyline
type Point struct {
	X float64 `json:"x" validate:"min=-1000000,max=1000000"`
	Y float64 `json:"y" validate:"min=-1000000,max=1000000"`
}

// =============================================================================
// Shape Payload Types
// =============================================================================

type DrawShapeData struct {
	Placement
	StrokeStyle
	Points   []Point `json:"points" validate:"required,min=1,max=10000,dive"`
	IsClosed bool    `json:"isClosed,omitempty"`
}

type GeoShapeData struct {
	Placement
	StrokeStyle
	Geo    string  `json:"geo" validate:"required,max=50"`
	Width  float64 `json:"w" validate:"min=0,max=1000000"`
	Height float64 `json:"h" validate:"min=0,max=1000000"`
}

type LineShapeData struct {
	Placement
	StrokeStyle
	Points []Point `json:"points" validate:"required,min=2,max=10000,dive"`
}

type TextShapeData struct {
	Placement
	Text     string  `json:"text" validate:"required,max=1000"`
	Font     string  `json:"font,omitempty" validate:"omitempty,max=100"`
	FontSize float64 `json:"fontSize,omitempty" validate:"omitempty,min=1,max=500"`
	Color    string  `json:"color,omitempty" validate:"omitempty,max=50"`
}

type NoteShapeData struct {
	Placement
	Text  string `json:"text,omitempty" validate:"omitempty,max=1000"`
	Color string `json:"color,omitempty" validate:"omitempty,max=50"`
}
