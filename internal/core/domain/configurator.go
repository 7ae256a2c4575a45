package domain

type (
	TableModel struct {
		ID                         string
		Name                       string
		Slug                       string
		BasePrice                  float64
		CustomSizeSurchargePercent float64
		AllowsCustomSize           bool
	}

	TableMaterial struct {
		ID         string
		Name       string
		Multiplier float64
	}

	TableSize struct {
		ID         string
		Name       string
		Dimensions Dimensions
		Multiplier float64
	}

	TableQuality struct {
		ID         string
		Name       string
		Multiplier float64
	}

	TableOption struct {
		ID    string
		Name  string
		Price float64
	}

	// A Configurator is the full set of table-configurator entities.
	Configurator struct {
		Models    []TableModel
		Materials []TableMaterial
		Sizes     []TableSize
		Qualities []TableQuality
		Options   []TableOption
	}
)

// PriceComponents are the inputs of a configured item price.
type PriceComponents struct {
	BasePrice          float64
	MaterialMultiplier float64
	SizeMultiplier     float64
	QualityMultiplier  float64

	// CustomSizeAdjustmentPercent is applied as a percentage of the
	// multiplied price when set.
	CustomSizeAdjustmentPercent *float64

	// AdditionalOptions is a flat amount added last when set.
	AdditionalOptions *float64
}

// A TableSelection is a customer's configurator choice.
type TableSelection struct {
	ModelSlug  string
	MaterialID string
	SizeID     string
	QualityID  string
	CustomSize bool
	OptionIDs  []string
}

type TableQuote struct {
	Model      TableModel
	Material   TableMaterial
	Size       TableSize
	Quality    TableQuality
	Options    []TableOption
	Components PriceComponents
	Price      string // decimal with two fraction digits, EUR
}
