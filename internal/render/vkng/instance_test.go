package vkng

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/extensions/v3/ext_debug_utils"

	"github.com/vkngwrapper/vkcore/internal/render"
)

func TestSeverityFlagsRoundTrip(t *testing.T) {
	flags := severityFlags(render.SeverityWarning | render.SeverityError)
	require.Equal(t, ext_debug_utils.SeverityWarning|ext_debug_utils.SeverityError, flags)
	require.Equal(t, render.SeverityWarning|render.SeverityError, severityFrom(flags))

	require.Equal(t, render.AllSeverities, severityFrom(severityFlags(render.AllSeverities)))
}

func TestCategoryFlags(t *testing.T) {
	require.Equal(t, ext_debug_utils.TypeValidation, typeFlags(render.CategoryValidation))
	require.Equal(t, render.AllCategories, categoryFrom(typeFlags(render.AllCategories)))
	require.Equal(t, render.Category(0), categoryFrom(0))
}

func TestMessengerCallbackForwards(t *testing.T) {
	var got []render.Message
	info := messengerCreateInfo(render.MessengerInfo{
		Severities: render.AllSeverities,
		Categories: render.AllCategories,
		Callback:   func(m render.Message) { got = append(got, m) },
	})

	keepGoing := info.UserCallback(ext_debug_utils.TypeValidation, ext_debug_utils.SeverityError, &ext_debug_utils.DebugUtilsMessengerCallbackData{
		Message: "vkDestroyDevice: objects not destroyed",
	})
	require.False(t, keepGoing)

	require.Len(t, got, 1)
	require.Equal(t, render.SeverityError, got[0].Severity)
	require.Equal(t, render.CategoryValidation, got[0].Category)
	require.Equal(t, "vkDestroyDevice: objects not destroyed", got[0].Text)

	require.False(t, info.UserCallback(ext_debug_utils.TypeGeneral, ext_debug_utils.SeverityInfo, nil))
	require.Len(t, got, 1)
}
