package i18n

type Messages struct {
	MenuTitle        string
	MenuSearch       string
	MenuGenerate     string
	MenuDifficulty   string
	MenuValid        string
	MenuNetwork      string
	MenuEncrypt      string
	MenuDecrypt      string
	MenuShowPatterns string
	MenuExit         string
	UnknownCommand   string
	CurrentNetwork   string

	EncryptPrompt   string
	PasswordPrompt  string
	HintPrompt      string
	EmptyPassword   string
	PatternPrompt   string
	NetworkPrompt   string
	NetworkChanged  string
	SearchDone      string
	GenerateResult  string
	SecretHidden    string
	DifficultyValue string
	ValidYes        string
	ValidNo         string
	JobDone         string
	Failed          string

	ConfigNotLoaded     string
	ConfigHeader        string
	ConfigNetwork       string
	ConfigLiteral       string
	ConfigRegexp        string
	ConfigCaseSensitive string
	ConfigMaxResults    string
}

func Get(lang string) Messages {
	switch lang {
	case "en":
		return Messages{
			MenuTitle:        "VanityTools: vanitygen front end",
			MenuSearch:       "1) Continuous search (configs/patterns.yaml)",
			MenuGenerate:     "2) Generate one address",
			MenuDifficulty:   "3) Pattern difficulty",
			MenuValid:        "4) Check pattern",
			MenuNetwork:      "5) Switch network",
			MenuEncrypt:      "6) Encrypt results (inputs/encrypt)",
			MenuDecrypt:      "7) Decrypt results (inputs/decrypt)",
			MenuShowPatterns: "8) Show loaded patterns",
			MenuExit:         "Press enter to exit",
			UnknownCommand:   "Unknown command:",
			CurrentNetwork:   "Network: %s\n",

			EncryptPrompt:   "Encrypt results? (y/n)",
			PasswordPrompt:  "Password: ",
			HintPrompt:      "Optional password hint (saved to hint.txt): ",
			EmptyPassword:   "Empty password, encryption disabled.",
			PatternPrompt:   "Pattern (prefix, or /regexp/): ",
			NetworkPrompt:   "Network (%s): ",
			NetworkChanged:  "Network set to %s\n",
			SearchDone:      "Search finished: found=%d delivered=%d rejected=%d duplicate=%d dir=%s\n",
			GenerateResult:  "Pattern: %s\nAddress: %s\nPrivkey: %s\n",
			SecretHidden:    "[hidden]",
			DifficultyValue: "Difficulty: %s\n",
			ValidYes:        "Pattern is valid",
			ValidNo:         "Pattern is not valid",
			JobDone:         "Done: total=%d ok=%d failed=%d dir=%s\n",
			Failed:          "Failed: %v\n",

			ConfigNotLoaded:     "Config not loaded: %v\n",
			ConfigHeader:        "=== patterns config ===",
			ConfigNetwork:       "Network: %s\n",
			ConfigLiteral:       "Literal:",
			ConfigRegexp:        "Regexp:",
			ConfigCaseSensitive: "Case sensitive: %v\n",
			ConfigMaxResults:    "Max results: %d\n",
		}
	default: // "ru"
		return Messages{
			MenuTitle:        "VanityTools: оболочка vanitygen",
			MenuSearch:       "1) Непрерывный поиск (configs/patterns.yaml)",
			MenuGenerate:     "2) Сгенерировать один адрес",
			MenuDifficulty:   "3) Сложность паттерна",
			MenuValid:        "4) Проверить паттерн",
			MenuNetwork:      "5) Сменить сеть",
			MenuEncrypt:      "6) Зашифровать результаты (inputs/encrypt)",
			MenuDecrypt:      "7) Расшифровать результаты (inputs/decrypt)",
			MenuShowPatterns: "8) Показать загруженные паттерны",
			MenuExit:         "Enter для выхода",
			UnknownCommand:   "Неизвестная команда:",
			CurrentNetwork:   "Сеть: %s\n",

			EncryptPrompt:   "Шифровать результаты? (y/n)",
			PasswordPrompt:  "Пароль: ",
			HintPrompt:      "Подсказка к паролю (сохранится в hint.txt, необязательно): ",
			EmptyPassword:   "Пустой пароль, шифрование отключено.",
			PatternPrompt:   "Паттерн (префикс или /regexp/): ",
			NetworkPrompt:   "Сеть (%s): ",
			NetworkChanged:  "Сеть изменена на %s\n",
			SearchDone:      "Поиск завершён: найдено=%d получено=%d отклонено=%d повторов=%d папка=%s\n",
			GenerateResult:  "Pattern: %s\nAddress: %s\nPrivkey: %s\n",
			SecretHidden:    "[скрыто]",
			DifficultyValue: "Сложность: %s\n",
			ValidYes:        "Паттерн корректен",
			ValidNo:         "Паттерн некорректен",
			JobDone:         "Готово: всего=%d успешно=%d ошибок=%d папка=%s\n",
			Failed:          "Ошибка: %v\n",

			ConfigNotLoaded:     "Config не загружен: %v\n",
			ConfigHeader:        "=== patterns config ===",
			ConfigNetwork:       "Сеть: %s\n",
			ConfigLiteral:       "Literal:",
			ConfigRegexp:        "Regexp:",
			ConfigCaseSensitive: "Чувствительность к регистру: %v\n",
			ConfigMaxResults:    "Максимум результатов: %d\n",
		}
	}
}
