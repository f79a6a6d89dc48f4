package models

type BacktestConfigYAML struct {
	Symbol         string           `yaml:"symbol"`
	LookbackPeriod int              `yaml:"lookback_period"`
	EntryThreshold float64          `yaml:"entry_threshold"`
	ExitThreshold  float64          `yaml:"exit_threshold"`
	LotSize        float64          `yaml:"lot_size"`
	Data           DataConfigYAML   `yaml:"data"`
	Output         OutputConfigYAML `yaml:"output"`
	Live           LiveConfigYAML   `yaml:"live"`
}

type DataSource string

const (
	DataSourceCSV     DataSource = "csv"
	DataSourcePolygon DataSource = "polygon"
)

type DataConfigYAML struct {
	Source   DataSource `yaml:"source"`
	CsvPath  string     `yaml:"csv_path"`
	Start    string     `yaml:"start"`
	End      string     `yaml:"end"`
	Interval string     `yaml:"interval"`
}

type OutputConfigYAML struct {
	Dir string `yaml:"dir"`
}

type BrokerType string

const (
	BrokerTypePaper   BrokerType = "paper"
	BrokerTypeTradier BrokerType = "tradier"
)

type LiveConfigYAML struct {
	PollInterval string     `yaml:"poll_interval"`
	Broker       BrokerType `yaml:"broker"`
}
