package llm

// Command describes an inferred command to the model.
type Command struct {
	ID               InferredCommand
	Instructions     string
	Keywords         []string
	ExampleResponses []string
	ExtraFields      string
}

// Commands is the command table rendered into the system prompt.
var Commands = []Command{
	{
		ID:           CommandRegister,
		Instructions: "The user is trying to make sure that the bot has its info registered. This might be already done. Just reply that you understood that user wants to be registered and it is now done",
		Keywords:     []string{"register", "/register", "join", "add me", "sign me up", "register me"},
		ExampleResponses: []string{
			`{"inferredCommand":"register","responseText":"Ok bro i know that you exist"}`,
			`{"inferredCommand":"register","responseText":"Registered!!"}`,
			`{"inferredCommand":"register","responseText":"Done!"}`,
		},
	},
	{
		ID:           CommandBirthday,
		Instructions: "The user wants you to remember its birthday. So if the user does not specify a day, month or year you should ask him to re-tag you with all the infos.",
		Keywords:     []string{"birthday", "bday", "/birthday", "date of birth"},
		ExampleResponses: []string{
			`{"inferredCommand":"birthday","responseText":"Got it. I noted your birthday as 24/12/1991.","birthday":"1991-12-24"}`,
			`{"inferredCommand":"birthday","responseText":"So you tell me your birthday without specifying the day? Seriously?"}`,
		},
		ExtraFields: "birthday: YYYY-MM-DD string",
	},
	{
		ID:           CommandNominate,
		Instructions: "The user is trying to select a random user in the chat group (the actual user selected will be done by the app backend). In this case, you can send an empty response or use [random_user] where the chosen user should appear. The data that matters is that the inferredCommand is 'nominate'",
		Keywords:     []string{"nominate", "pick someone", "choose someone", "Who should do X?", "Who is the most X?"},
		ExampleResponses: []string{
			`{"inferredCommand":"nominate","responseText":""}`,
			`{"inferredCommand":"nominate","responseText":"Obviously it's [random_user]"}`,
		},
	},
	{
		ID:           CommandUnknown,
		Instructions: "Use this as the last resort if you think the user is not trying to execute any command above. Just answer the message according to the bot's style",
		Keywords:     []string{"hello", "how are you?"},
		ExampleResponses: []string{
			`{"inferredCommand":"unknown","responseText":"???"}`,
			`{"inferredCommand":"unknown","responseText":"What?"}`,
		},
	},
}
