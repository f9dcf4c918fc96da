package main

import (
	"fmt"
	"os"
)

const starterConfig = `# feedd configuration
logging:
  level: info
  format: text

store:
  effect_buffer: 64
  overflow: block

posts:
  path: posts.json
  watch: true
  render: true

refresh:
  interval: 10m

metrics:
  enabled: true
  listen: ":9464"

journal:
  enabled: true
  path: feedd.journal.db

bridge:
  enabled: false
  # url: nats://localhost:4222
  # subject: uniflow.effects.feed
`

const starterPosts = `[
  {
    "id": "welcome",
    "title": "Welcome to feedd",
    "body": "Edit **posts.json** and the feed refreshes itself.",
    "liked": false,
    "likes": 0
  }
]
`

func runInit(configPath string, force bool) error {
	if err := writeStarter(configPath, starterConfig, force); err != nil {
		return err
	}
	if err := writeStarter("posts.json", starterPosts, force); err != nil {
		return err
	}
	fmt.Printf("Wrote %s and posts.json. Start with: feedd run -c %s\n", configPath, configPath)
	return nil
}

func writeStarter(path, content string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}
	return os.WriteFile(path, []byte(content), 0o644)
}
