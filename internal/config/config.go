package config

type Config struct {
	UI          UIConfig          `yaml:"ui"`
	Layout      LayoutConfig      `yaml:"layout"`
	Graph       GraphConfig       `yaml:"graph"`
	Keybindings KeybindingsConfig `yaml:"keybindings"`
	Performance PerformanceConfig `yaml:"performance"`
}

type UIConfig struct {
	Theme      string `yaml:"theme"`
	Mouse      bool   `yaml:"mouse"`
	DateFormat string `yaml:"date_format"`
	ShowTime   bool   `yaml:"show_time"`
}

type LayoutConfig struct {
	MinWidth int `yaml:"min_width"`
}

// GraphConfig carries the engine options: glyph profile, lane palette
// and geometry, privileged branches, and viewport checkpointing.
type GraphConfig struct {
	Charset                 string   `yaml:"charset"`
	LaneColors              int      `yaml:"lane_colors"`
	LaneWidthCells          int      `yaml:"lane_width_cells"`
	PrivilegedBranches      []string `yaml:"privileged_branches"`
	CheckpointInterval      int      `yaml:"checkpoint_interval"`
	TruncateMessageCJKAware bool     `yaml:"truncate_message_cjk_aware"`
}

type KeybindingsConfig struct {
	Quit         []string `yaml:"quit"`
	Help         []string `yaml:"help"`
	Jump         []string `yaml:"jump"`
	Up           []string `yaml:"up"`
	Down         []string `yaml:"down"`
	Top          []string `yaml:"top"`
	Bottom       []string `yaml:"bottom"`
	PageUp       []string `yaml:"page_up"`
	PageDown     []string `yaml:"page_down"`
	HalfPageUp   []string `yaml:"half_page_up"`
	HalfPageDown []string `yaml:"half_page_down"`
	Recenter     []string `yaml:"recenter"`
}

type PerformanceConfig struct {
	IngestLimit int `yaml:"ingest_limit"`
}
