package anthropic

// BuildCachedSystemBlocks returns the system prompt as a single block with
// a 5m ephemeral cache breakpoint.
func BuildCachedSystemBlocks(text string) []SystemBlock {
	if text == "" {
		return nil
	}
	return []SystemBlock{{Text: text, CacheControl: &CacheControl{TTL: "5m"}}}
}

// BuildSystemBlocks returns the system prompt without cache control.
func BuildSystemBlocks(text string) []SystemBlock {
	if text == "" {
		return nil
	}
	return []SystemBlock{{Text: text}}
}
