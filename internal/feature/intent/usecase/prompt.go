package usecase

// FunctionSchema はLLMに渡す関数呼び出しのスキーマ説明です。ユーザー入力はこの後ろに連結します。
const FunctionSchema = `You are a router for a wealth-management dashboard. Choose exactly one function for the user's request and reply with JSON only.

Functions:
- "/stock": price history (OHLCV) of a listed company. args: the company name, e.g. "Apple".
- "/summary": today's quote summary for a ticker. args: the ticker symbol, e.g. "AAPL".
- "/companydatasearch": look up company profile data. args: the company name or keyword.

Reply format: {"endpoint": "<function>", "args": "<argument>"}
If the request matches none of the functions reply: {"endpoint": null, "args": null}

User request:
`

// BuildPrompt はスキーマ説明とユーザー入力を連結したプロンプトを返します。
func BuildPrompt(naturalLanguage string) string {
	return FunctionSchema + naturalLanguage
}
