/*
Package component maps component names found in a document body to the
handlers that render them.

A Registry is filled once, frozen, and then shared by any number of
concurrent renders. Looking up a name that was never registered yields
ErrUnknownComponent, which aborts the render of the whole document.

Defaults returns a frozen registry with the built-in components:

	<Attribution author="..." avatar={asset} date={2023-04-16} url="...">quote</Attribution>
	<TweetEmbed tweetId="..." author="..." handle="..." date={2023-04-16}>text</TweetEmbed>
	<Translations>list of links</Translations>
	<Callout type="warning">text</Callout>

Custom components are added with Register before the registry is frozen:

	reg := component.NewRegistry()
	reg.MustRegister("Note", component.HandlerFunc(func(inv component.Invocation) (template.HTML, error) {
		body, err := inv.RenderChildren()
		...
	}))
	reg.Freeze()
*/
package component

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'folio.component'.
func tracer() tracing.Trace {
	return tracing.Select("folio.component")
}
