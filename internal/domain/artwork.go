package domain

import (
	"github.com/shopspring/decimal"
)

// Artwork describes one catalog entry. The catalog is a fixed demo data set;
// artworks are never created, updated or removed at runtime.
type Artwork struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Symbol  string `json:"symbol"`
	Creator string `json:"creator"`

	Details     ArtworkDetails   `json:"details"`
	CreatorInfo CreatorInfo      `json:"creator_info"`
	Financial   ArtworkFinancial `json:"financial"`
}

// ArtworkDetails holds the physical description of an artwork.
type ArtworkDetails struct {
	Dimensions string `json:"dimensions"`
	Medium     string `json:"medium"`
	Year       string `json:"year"`
	Condition  string `json:"condition"`
	Provenance string `json:"provenance"`
}

// CreatorInfo holds the artist background shown on detail pages.
type CreatorInfo struct {
	Name           string   `json:"name"`
	Bio            string   `json:"bio"`
	Certifications []string `json:"certifications"`
}

// ArtworkFinancial holds the fractional-investment economics of an artwork.
// BaselineFunding is the funding level the demo starts from; the seeder
// materializes it as an initial investment record.
type ArtworkFinancial struct {
	FundingGoal     decimal.Decimal `json:"funding_goal"`
	BaselineFunding decimal.Decimal `json:"baseline_funding"`
	SharePrice      decimal.Decimal `json:"share_price"`
	TotalShares     int             `json:"total_shares"`
}

// catalog is the single immutable artwork table. All read paths go through
// Catalog() / ArtworkByID() rather than re-embedding the data.
var catalog = []Artwork{
	{
		ID:      "art-001",
		Name:    "Sunset Over Bosphorus",
		Symbol:  "SOB01",
		Creator: "Ayşe Demir",
		Details: ArtworkDetails{
			Dimensions: "70x90 cm",
			Medium:     "Oil on Canvas",
			Year:       "2020",
			Condition:  "Excellent",
			Provenance: "Artist Studio",
		},
		CreatorInfo: CreatorInfo{
			Name:           "Ayşe Demir",
			Bio:            "Contemporary Turkish artist specializing in landscape paintings with 15 years of experience.",
			Certifications: []string{"Authenticity Certificate", "Gallery Exhibit Award"},
		},
		Financial: ArtworkFinancial{
			FundingGoal:     decimal.NewFromInt(100),
			BaselineFunding: decimal.NewFromInt(75),
			SharePrice:      decimal.NewFromInt(5),
			TotalShares:     20,
		},
	},
	{
		ID:      "art-002",
		Name:    "Abstract Dreams",
		Symbol:  "AD02",
		Creator: "Mehmet Özkan",
		Details: ArtworkDetails{
			Dimensions: "60x80 cm",
			Medium:     "Acrylic on Canvas",
			Year:       "2023",
			Condition:  "Mint",
			Provenance: "Private Collection",
		},
		CreatorInfo: CreatorInfo{
			Name:           "Mehmet Özkan",
			Bio:            "Modern abstract artist from Ankara, known for vibrant color combinations.",
			Certifications: []string{"Modern Art Certificate", "Exhibition Winner"},
		},
		Financial: ArtworkFinancial{
			FundingGoal:     decimal.NewFromInt(150),
			BaselineFunding: decimal.NewFromInt(80),
			SharePrice:      decimal.NewFromInt(10),
			TotalShares:     15,
		},
	},
	{
		ID:      "art-003",
		Name:    "Mediterranean Blue",
		Symbol:  "MB03",
		Creator: "Elena Rodriguez",
		Details: ArtworkDetails{
			Dimensions: "50x70 cm",
			Medium:     "Watercolor",
			Year:       "2022",
			Condition:  "Very Good",
			Provenance: "Gallery Collection",
		},
		CreatorInfo: CreatorInfo{
			Name:           "Elena Rodriguez",
			Bio:            "Watercolor specialist with international recognition and 12 years of professional experience.",
			Certifications: []string{"International Art Award", "Master Watercolorist"},
		},
		Financial: ArtworkFinancial{
			FundingGoal:     decimal.NewFromInt(120),
			BaselineFunding: decimal.NewFromInt(24),
			SharePrice:      decimal.NewFromInt(8),
			TotalShares:     15,
		},
	},
	{
		ID:      "art-004",
		Name:    "Urban Symphony",
		Symbol:  "US04",
		Creator: "Alex Chen",
		Details: ArtworkDetails{
			Dimensions: "80x100 cm",
			Medium:     "Mixed Media",
			Year:       "2024",
			Condition:  "Perfect",
			Provenance: "Artist Studio",
		},
		CreatorInfo: CreatorInfo{
			Name:           "Alex Chen",
			Bio:            "Contemporary mixed media artist exploring urban themes and city life.",
			Certifications: []string{"Contemporary Art Award", "Urban Art Specialist"},
		},
		Financial: ArtworkFinancial{
			FundingGoal:     decimal.NewFromInt(250),
			BaselineFunding: decimal.NewFromInt(50),
			SharePrice:      decimal.NewFromInt(15),
			TotalShares:     17,
		},
	},
	{
		ID:      "art-005",
		Name:    "Golden Horizon",
		Symbol:  "GH05",
		Creator: "Sara Williams",
		Details: ArtworkDetails{
			Dimensions: "90x120 cm",
			Medium:     "Oil on Canvas",
			Year:       "2019",
			Condition:  "Museum Quality",
			Provenance: "Private Collection",
		},
		CreatorInfo: CreatorInfo{
			Name:           "Sara Williams",
			Bio:            "Master oil painter with 20 years of experience and multiple museum exhibitions.",
			Certifications: []string{"Master Artist", "Museum Exhibition", "Art Critic Choice"},
		},
		Financial: ArtworkFinancial{
			FundingGoal:     decimal.NewFromInt(350),
			BaselineFunding: decimal.NewFromInt(280),
			SharePrice:      decimal.NewFromInt(20),
			TotalShares:     18,
		},
	},
	{
		ID:      "art-006",
		Name:    "Mystic Forest",
		Symbol:  "MF06",
		Creator: "David Miller",
		Details: ArtworkDetails{
			Dimensions: "65x85 cm",
			Medium:     "Tempera on Wood",
			Year:       "2023",
			Condition:  "Excellent",
			Provenance: "Artist Collection",
		},
		CreatorInfo: CreatorInfo{
			Name:           "David Miller",
			Bio:            "Nature-focused artist specializing in forest and landscape scenes with traditional techniques.",
			Certifications: []string{"Nature Art Specialist", "Environmental Art Award"},
		},
		Financial: ArtworkFinancial{
			FundingGoal:     decimal.NewFromInt(180),
			BaselineFunding: decimal.NewFromInt(90),
			SharePrice:      decimal.NewFromInt(12),
			TotalShares:     15,
		},
	},
}

// Catalog returns the full artwork table. The returned slice is a copy;
// mutating it does not affect the catalog.
func Catalog() []Artwork {
	out := make([]Artwork, len(catalog))
	copy(out, catalog)
	return out
}

// ArtworkByID looks up a catalog entry.
// Returns a ValidationError when the artwork does not exist.
func ArtworkByID(id string) (*Artwork, error) {
	for i := range catalog {
		if catalog[i].ID == id {
			a := catalog[i]
			return &a, nil
		}
	}
	return nil, NewValidationError("unknown artwork %q", id)
}
