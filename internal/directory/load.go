package directory

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/davern/profilerelay/internal/profile"
)

// defaultUsersYAML is the built-in demo table, used when no users file is
// configured or the configured file does not exist.
const defaultUsersYAML = `# profilerelay demo directory
users:
  - user_id: U001
    name: Alice Johnson
    email: alice.johnson@techcorp.com
    role: Senior Data Scientist
    department: AI Research
    skills: [Python, TensorFlow, NLP, Deep Learning]
    projects: [Chatbot Enhancement, Sentiment Analysis]
    status: active
    joined_date: "2022-03-15"
    last_login: "2025-10-02T09:15:00Z"
  - user_id: U002
    name: Bob Smith
    email: bob.smith@techcorp.com
    role: Product Manager
    department: Product
    skills: [Agile, Product Strategy, User Research, Analytics]
    projects: [Mobile App Redesign, Customer Portal]
    status: active
    joined_date: "2021-06-20"
    last_login: "2025-10-01T16:45:00Z"
  - user_id: U003
    name: Carol Martinez
    email: carol.martinez@techcorp.com
    role: DevOps Engineer
    department: Engineering
    skills: [Kubernetes, Docker, CI/CD, AWS, Terraform]
    projects: [Infrastructure Automation, Cloud Migration]
    status: active
    joined_date: "2023-01-10"
    last_login: "2025-10-02T08:30:00Z"
  - user_id: U004
    name: David Chen
    email: david.chen@techcorp.com
    role: UX Designer
    department: Design
    skills: [Figma, User Testing, Wireframing, Prototyping]
    projects: [Design System, Mobile App Redesign]
    status: inactive
    joined_date: "2020-11-05"
    last_login: "2025-09-15T14:20:00Z"
`

type usersFile struct {
	Users []profile.Profile `yaml:"users"`
}

// Default returns the built-in demo table.
func Default() *Table {
	t, err := parseUsersYAML([]byte(defaultUsersYAML))
	if err != nil {
		// the embedded table must parse
		panic(err)
	}
	return t
}

// Load reads a users YAML file. A missing file falls back to the built-in
// table; any other read or parse failure is reported.
func Load(path string) (*Table, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("directory: read %s: %w", path, err)
	}
	t, err := parseUsersYAML(data)
	if err != nil {
		return nil, fmt.Errorf("directory: parse %s: %w", path, err)
	}
	return t, nil
}

func parseUsersYAML(data []byte) (*Table, error) {
	var file usersFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, err
	}
	return New(file.Users)
}
