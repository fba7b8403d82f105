package spec

// Credential is a named acquire/release scope steps can run inside.
type Credential struct {
	Kind   string            `yaml:"kind"` // "wsk", "file", "git-identity", "git-credentials"
	Params map[string]string `yaml:"params"`
}

// Step is exactly one of Run, Checkout or Write.
type Step struct {
	Run         string    `yaml:"run"`
	Checkout    *Checkout `yaml:"checkout"`
	Write       *Write    `yaml:"write"`
	Credentials string    `yaml:"credentials"` // key into File.Credentials
	Dir         string    `yaml:"dir"`
}

// Checkout clones Branch (default master) of Repo into Folder.
type Checkout struct {
	Repo   string `yaml:"repo"`
	Branch string `yaml:"branch"`
	Folder string `yaml:"folder"`
}

type Write struct {
	File    string `yaml:"file"`
	Content string `yaml:"content"`
}

type Stage struct {
	Name string `yaml:"name"`
	// Stage is skipped unless package.json defines this script.
	WhenScript string            `yaml:"when_script"`
	Env        map[string]string `yaml:"env"`
	Steps      []Step            `yaml:"steps"`
	// Finally steps run once any step of the stage has started, even on failure.
	Finally []Step `yaml:"finally"`
}

type File struct {
	SchemaVersion string `yaml:"schema_version"`

	Credentials map[string]Credential `yaml:"credentials"`

	// Ordered; stages run one after another.
	Stages []Stage `yaml:"stages"`
}
