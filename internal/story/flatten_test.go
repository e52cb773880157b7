package story

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulseops/Autosource/internal/testutil"
)

func storyYAML(includes []string, events ...string) string {
	s := "org_id: acme\nstart_date: \"2024-01-01\"\n"
	if len(includes) > 0 {
		s += "includes:\n"
		for _, inc := range includes {
			s += "  - " + inc + "\n"
		}
	}
	if len(events) == 0 {
		return s + "events: []\n"
	}
	s += "events:\n"
	for _, ev := range events {
		s += "  - source: test\n    event: " + ev + "\n    offset_days: 0\n"
	}
	return s
}

func eventNames(specs []EventSpec) []string {
	names := make([]string, len(specs))
	for i, s := range specs {
		names[i] = s.Event
	}
	return names
}

func TestFlatten_ParentThenIncludesInOrder(t *testing.T) {
	dir := testutil.StoryDir(t, map[string]string{
		"root.yaml": storyYAML([]string{"a.yaml", "b.yaml"}, "root.1", "root.2"),
		"a.yaml":    storyYAML([]string{"nested/c.yaml"}, "a.1"),
		"b.yaml":    storyYAML(nil, "b.1"),
		// c resolves d against its own directory
		"nested/c.yaml": storyYAML([]string{"d.yaml"}, "c.1"),
		"nested/d.yaml": storyYAML(nil, "d.1"),
	})

	root, specs, err := NewLoader(nil).LoadAndFlatten(filepath.Join(dir, "root.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "acme", root.OrgID)
	assert.Equal(t, []string{"root.1", "root.2", "a.1", "c.1", "d.1", "b.1"}, eventNames(specs))
}

func TestFlatten_DiamondVisitsSharedIncludeOnce(t *testing.T) {
	dir := testutil.StoryDir(t, map[string]string{
		"root.yaml":   storyYAML([]string{"left.yaml", "right.yaml"}, "root"),
		"left.yaml":   storyYAML([]string{"shared.yaml"}, "left"),
		"right.yaml":  storyYAML([]string{"./shared.yaml"}, "right"),
		"shared.yaml": storyYAML(nil, "shared"),
	})

	_, specs, err := NewLoader(nil).LoadAndFlatten(filepath.Join(dir, "root.yaml"))
	require.NoError(t, err)

	assert.Equal(t, []string{"root", "left", "shared", "right"}, eventNames(specs))
}

func TestFlatten_CycleTerminates(t *testing.T) {
	dir := testutil.StoryDir(t, map[string]string{
		"a.yaml": storyYAML([]string{"b.yaml"}, "a"),
		"b.yaml": storyYAML([]string{"a.yaml"}, "b"),
	})

	_, specs, err := NewLoader(nil).LoadAndFlatten(filepath.Join(dir, "a.yaml"))
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b"}, eventNames(specs))
}

func TestFlatten_SelfInclude(t *testing.T) {
	dir := testutil.StoryDir(t, map[string]string{
		"self.yaml": storyYAML([]string{"self.yaml"}, "only"),
	})

	_, specs, err := NewLoader(nil).LoadAndFlatten(filepath.Join(dir, "self.yaml"))
	require.NoError(t, err)
	assert.Equal(t, []string{"only"}, eventNames(specs))
}

func TestFlatten_VisitedSetIsPerCall(t *testing.T) {
	dir := testutil.StoryDir(t, map[string]string{
		"root.yaml":  storyYAML([]string{"child.yaml"}, "root"),
		"child.yaml": storyYAML(nil, "child"),
	})
	loader := NewLoader(nil)
	path := filepath.Join(dir, "root.yaml")

	_, first, err := loader.LoadAndFlatten(path)
	require.NoError(t, err)
	_, second, err := loader.LoadAndFlatten(path)
	require.NoError(t, err)

	assert.Equal(t, eventNames(first), eventNames(second))
	assert.Len(t, second, 2)
}

func TestFlatten_MissingInclude(t *testing.T) {
	dir := testutil.StoryDir(t, map[string]string{
		"root.yaml": storyYAML([]string{"ghost.yaml"}, "root"),
	})

	_, _, err := NewLoader(nil).LoadAndFlatten(filepath.Join(dir, "root.yaml"))
	require.Error(t, err)

	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, "includes", le.Field)
	assert.Contains(t, err.Error(), "ghost.yaml")
}

func TestFlatten_InvalidIncludedStory(t *testing.T) {
	dir := testutil.StoryDir(t, map[string]string{
		"root.yaml": storyYAML([]string{"bad.yaml"}, "root"),
		"bad.yaml":  "org_id: acme\nevents: []\n",
	})

	_, _, err := NewLoader(nil).LoadAndFlatten(filepath.Join(dir, "root.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "start_date: is required")
}

func TestFlatten_DoesNotAliasStoryEvents(t *testing.T) {
	dir := testutil.StoryDir(t, map[string]string{
		"root.yaml": storyYAML(nil, "one", "two"),
	})
	root, err := Load(filepath.Join(dir, "root.yaml"))
	require.NoError(t, err)

	specs, err := NewLoader(nil).Flatten(root)
	require.NoError(t, err)
	specs[0].Event = "changed"

	assert.Equal(t, "one", root.Events[0].Event)
}

func symlink(t *testing.T, target, link string) {
	t.Helper()
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}
}

func TestFlatten_SymlinkedIncludeVisitedOnce(t *testing.T) {
	dir := testutil.StoryDir(t, map[string]string{
		"root.yaml":   storyYAML([]string{"shared.yaml", "alias.yaml"}, "root"),
		"shared.yaml": storyYAML(nil, "shared"),
	})
	symlink(t, filepath.Join(dir, "shared.yaml"), filepath.Join(dir, "alias.yaml"))

	_, specs, err := NewLoader(nil).LoadAndFlatten(filepath.Join(dir, "root.yaml"))
	require.NoError(t, err)
	assert.Equal(t, []string{"root", "shared"}, eventNames(specs))
}

func TestFlatten_SymlinkedRootIsVisited(t *testing.T) {
	dir := testutil.StoryDir(t, map[string]string{
		"real/root.yaml":  storyYAML([]string{"../linked.yaml"}, "root"),
	})
	symlink(t, filepath.Join(dir, "real", "root.yaml"), filepath.Join(dir, "linked.yaml"))

	// Loading through the link records the real path, so the include that
	// points back at the link is recognised as the root.
	root, specs, err := NewLoader(nil).LoadAndFlatten(filepath.Join(dir, "linked.yaml"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "real", "root.yaml"), root.Path)
	assert.Equal(t, []string{"root"}, eventNames(specs))
}
