package extract

// Instruction suffixes appended to the user's prompt. The wording is the
// mitigation against prose-wrapped replies: the parser stays strict and
// does not strip explanatory text around the payload.
const (
	jsonInstruction = "\n\n" +
		"Provide the output strictly as a single JSON object. " +
		"Do not include any explanation, markdown fences, or any text before or after the JSON."

	csvInstruction = "\n\n" +
		"Provide the output strictly as comma-separated values with a header row followed by data rows. " +
		"Do not include any explanation, markdown fences, or any text before or after the CSV."
)

// Compose builds the final instruction sent to the model backend by
// appending the format-specific suffix to the raw prompt. Pure and total:
// identical inputs always yield identical output, and the raw prompt is
// always contained in it verbatim.
func Compose(prompt string, format Format) string {
	if format == FormatCSV {
		return prompt + csvInstruction
	}
	return prompt + jsonInstruction
}
