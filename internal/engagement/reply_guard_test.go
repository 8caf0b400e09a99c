package engagement

import "testing"

func TestCleanReply(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  string
	}{
		{
			name:  "plain reply untouched",
			reply: "Oh no, why is my account blocked? What should I do?",
			want:  "Oh no, why is my account blocked? What should I do?",
		},
		{
			name:  "leading speaker label stripped",
			reply: "You: Oh no, what happened?",
			want:  "Oh no, what happened?",
		},
		{
			name:  "agent label stripped",
			reply: "Agent: Please tell me more about the fee.",
			want:  "Please tell me more about the fee.",
		},
		{
			name:  "scripted dialogue truncated to first utterance",
			reply: "Victim: I am so worried, which bank is this?\nScammer: Send the money now.",
			want:  "I am so worried, which bank is this?",
		},
		{
			name:  "surrounding quotes removed",
			reply: `"Why do you need my PIN?"`,
			want:  "Why do you need my PIN?",
		},
		{
			name:  "ai disclosure sentence removed",
			reply: "I'm an AI language model and cannot help with that. What do I need to do?",
			want:  "What do I need to do?",
		},
		{
			name:  "whitespace only yields empty",
			reply: "   \n\t ",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cleanReply(tt.reply); got != tt.want {
				t.Errorf("cleanReply(%q) = %q, want %q", tt.reply, got, tt.want)
			}
		})
	}
}
