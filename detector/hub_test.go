package detector

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHubGetOrCreate(t *testing.T) {
	hub := NewHub()
	first, err := hub.GetOrCreate("news")
	require.NoError(t, err)
	second, err := hub.GetOrCreate("news")
	require.NoError(t, err)
	assert.Same(t, first, second)

	other, err := hub.GetOrCreate("chat")
	require.NoError(t, err)
	assert.NotSame(t, first, other)
	assert.Equal(t, []string{"chat", "news"}, hub.Names())
}

func TestHubReservedNames(t *testing.T) {
	hub := NewHub()
	for _, name := range []string{"DEFAULT", "SHORT"} {
		_, err := hub.GetOrCreate(name)
		assert.ErrorIs(t, err, ErrReservedName, "name %s", name)
	}
}

func TestHubDefaultRegistries(t *testing.T) {
	hub := NewHub()
	standard, err := hub.Default()
	require.NoError(t, err)
	langs := standard.Languages()
	assert.Len(t, langs, 10)
	assert.Contains(t, langs, "en")
	assert.Contains(t, langs, "ja")
	assert.Contains(t, langs, "zh-cn")

	short, err := hub.DefaultShortText()
	require.NoError(t, err)
	assert.NotSame(t, standard, short)
	assert.ElementsMatch(t, langs, short.Languages())

	// Repeated access returns the same loaded registry, no reload.
	again, err := hub.Default()
	require.NoError(t, err)
	assert.Same(t, standard, again)
	assert.Equal(t, langs, again.Languages())
}

func TestHubDefaultConcurrentFirstAccess(t *testing.T) {
	hub := NewHub()
	var wg sync.WaitGroup
	registries := make([]*Registry, 8)
	for i := range registries {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			registry, err := hub.Default()
			assert.NoError(t, err)
			registries[i] = registry
		}(i)
	}
	wg.Wait()
	for _, registry := range registries {
		require.Same(t, registries[0], registry)
		// Double-load would duplicate the language list.
		assert.Len(t, registry.Languages(), 10)
	}
}

func TestHubRemove(t *testing.T) {
	hub := NewHub()
	first, err := hub.GetOrCreate("news")
	require.NoError(t, err)
	hub.Remove("news")
	second, err := hub.GetOrCreate("news")
	require.NoError(t, err)
	assert.NotSame(t, first, second)
}

func TestDefaultRegistryDetection(t *testing.T) {
	hub := NewHub()
	registry, err := hub.Default()
	require.NoError(t, err)

	tests := []struct {
		lang string
		text string
	}{
		{
			lang: "en",
			text: "this is a pen and that is a book and you are reading all of this in the english language",
		},
		{
			lang: "de",
			text: "ich bin natürlich müde und das buch über die schule ist gut geschrieben und ich lese es gerne",
		},
		{
			lang: "fr",
			text: "les enfants étaient dans la maison et le chat mangeait du pain sur la table pendant que nous parlions",
		},
		{
			lang: "ru",
			text: "это простой текст на русском языке и мы проверяем что он распознается правильно",
		},
		{
			lang: "ja",
			text: "これは日本語のテキストです。この本はとても面白いですからまた読みます。",
		},
		{
			lang: "zh-cn",
			text: "这是一个简单的中文测试文本，我们可以用它来测试这个中文检测器。",
		},
	}
	for _, tt := range tests {
		t.Run(tt.lang, func(t *testing.T) {
			session, err := registry.Create()
			require.NoError(t, err)
			session.SetSeed(42)
			session.Append(tt.text)
			assert.Equal(t, tt.lang, session.Detect())
		})
	}
}

func TestShortTextRegistryDetection(t *testing.T) {
	hub := NewHub()
	registry, err := hub.DefaultShortText()
	require.NoError(t, err)

	tests := []struct {
		lang string
		text string
	}{
		{lang: "en", text: "this is the thing that you want"},
		{lang: "ru", text: "это простой текст на русском"},
		{lang: "ja", text: "これは日本語のテキストです"},
	}
	for _, tt := range tests {
		t.Run(tt.lang, func(t *testing.T) {
			session, err := registry.Create()
			require.NoError(t, err)
			session.SetSeed(42)
			session.Append(tt.text)
			assert.Equal(t, tt.lang, session.Detect())
		})
	}
}
