package radix

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

const channelFilePrefix = "channel_"

var folderLineRe = regexp.MustCompile(`\{(.*?)\}`)

// ReadFolder reads an opus saved as a folder of channel files: a file
// "channel_<n>" for each used channel, holding one "{<notation>}" per line.
// Files not named after a channel are ignored. The radix is the default one.
func ReadFolder(dir string) (*Opus, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	o := &Opus{Radix: DefaultRadix, Tempo: DefaultTempo}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, channelFilePrefix) {
			continue
		}
		c, err := strconv.Atoi(strings.TrimPrefix(name, channelFilePrefix))
		if err != nil || c < 0 || c >= NumChannels {
			continue
		}
		content, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		for i, m := range folderLineRe.FindAllStringSubmatch(string(content), -1) {
			beats, err := ParseBeats(m[1], o.Radix)
			if err != nil {
				return nil, fmt.Errorf("%v line %d: %w", name, i, err)
			}
			o.Channels[c] = append(o.Channels[c], Line(beats))
		}
	}
	o.normalize()
	return o, nil
}

// WriteFolder saves the lines of the opus in the format ReadFolder reads,
// creating dir if needed. Channel files of unused channels are removed.
func WriteFolder(o *Opus, dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	for c, lines := range o.Channels {
		path := filepath.Join(dir, channelFilePrefix+strconv.Itoa(c))
		if len(lines) == 0 {
			if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
				return err
			}
			continue
		}
		var b strings.Builder
		for i, l := range lines {
			// the folder format has no place for bends
			l, _ = stripBends(l)
			s, err := FormatBeats(l, o.Radix)
			if err != nil {
				return fmt.Errorf("channel %d line %d: %w", c, i, err)
			}
			fmt.Fprintf(&b, "{%s}\n", s)
		}
		if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
			return err
		}
	}
	return nil
}
