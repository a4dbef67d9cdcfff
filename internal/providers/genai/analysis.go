package genai

// AnalysisPrompt asks for permanent, pose-independent traits. The HAIR: line
// is what the composer's hair lock quotes.
const AnalysisPrompt = `You are preparing a character sheet for a photo dataset.
Describe only the permanent physical traits of the person in this image.
Start with one line formatted exactly as "HAIR: <color, length, texture and style>."
Then describe face shape, eye shape and color, eyebrows, nose, lips, skin tone and distinctive marks.
Finish with one sentence on body build and proportions if they are visible.
Do not describe clothing, accessories, pose, expression, lighting or background.
Answer in plain sentences without lists or headings.`
