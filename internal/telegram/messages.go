package telegram

// Тексты бота. Плейсхолдеры подставляются через fmt.Sprintf.
const (
	MsgStartFirstTime = "@%s, привет! Это игра Поле Чудес!\n\n" +
		"Напиши /rules, чтобы узнать правила, и /play, чтобы начать игру."
	MsgStartReturningUser = "Привет, @%s! А я Вас уже знаю!\n\n" +
		"Напиши /play, чтобы начать игру."

	MsgRules = "Правила игры:\n\n" +
		"1. Бот загадывает слово и показывает загадку.\n" +
		"2. Игроки по очереди крутят барабан и называют по одной букве.\n" +
		"3. Сектор на барабане определяет цену буквы: число - столько очков " +
		"за каждую открытую букву, x2 - очки удваиваются, Банкрот - очки сгорают, " +
		"0 - переход хода.\n" +
		"4. Открыл букву - можешь крутить дальше или назвать слово целиком.\n" +
		"5. Не угадал букву, повторил уже открытую или думал дольше 30 секунд - " +
		"ход переходит следующему.\n" +
		"6. Побеждает тот, кто откроет последнюю букву или назовёт слово!"

	MsgGameAlreadyActive = "В этом чате уже идёт игра!"
	MsgNoActiveGames     = "В этом чате нет активной игры."
	MsgNotYourTurn       = "Остановить игру может только игрок, который сейчас ходит!"
	MsgUnknownCommand    = "Не знаю такой команды. Напиши /rules, чтобы узнать правила."
	MsgNoQuestions       = "Не получилось начать игру: у меня закончились загадки 😔"

	MsgProfile = "Профиль игрока @%s\nПобед: %d\nОчков: %d"

	MsgAddQuestionDenied = "Добавлять загадки могут только администраторы."
	MsgAddQuestionUsage  = "Формат: /addquestion Текст загадки | ответ\nОтвет - одно слово."
	MsgQuestionAdded     = "Загадка добавлена!"

	MsgRegistrationStart  = "Начинаем игру! Даю 15 секунд на то, чтобы зарегистрироваться!"
	MsgRegistration10Sec  = "Осталось 10 секунд!"
	MsgRegistration5Sec   = "Осталось 5 секунд!"
	MsgRegistrationClosed = "Регистрация уже закрыта!"
	MsgNotEnoughPlayers   = "Недостаточно участников: нужно хотя бы два игрока. Игра отменена."
	MsgGameStarted        = "Регистрация окончена, начинаем!"
	MsgParticipating      = "@%s участвует!"

	MsgGameQuestion = "Загадка: %s\n\nСлово: %s (%d букв)"
	MsgQuestion     = "Загадка: %s"
	MsgUsedLetters  = "Использованные буквы: %s"

	MsgSectorX2       = "@%s, сектор x2 на барабане! Угадаешь букву - очки удвоятся. Называй букву!"
	MsgSectorBankrupt = "@%s, сектор Банкрот! Все очки сгорают, ход переходит дальше."
	MsgSectorZero     = "@%s, сектор 0. Очки на месте, но ход переходит дальше."
	MsgSectorNumeric  = "@%s, на барабане сектор %d! Называй букву!"

	MsgWaitForWord = "Называй слово целиком!"
	MsgTimeout     = "@%s, время вышло! Ход переходит следующему игроку."

	MsgLetterAlreadyGuessed   = "Такая буква уже открыта! Ход переходит дальше."
	MsgLetterAlreadyGuessedX2 = "Такая буква уже открыта! Удвоения не будет, ход переходит дальше."
	MsgLetterCorrect          = "Есть буква %s! +%d очков.\n\n%s"
	MsgLetterCorrectX2        = "Есть буква %s! Очки умножаются на %d.\n\n%s"
	MsgLetterIncorrect        = "Буквы %s нет. Ход переходит дальше."

	MsgWordGuessIncorrect  = "Увы, это не то слово! Ход переходит дальше."
	MsgWordGuessNotAllowed = "Сейчас нужно назвать одну букву. Чтобы назвать слово целиком, нажми «Угадать слово»."

	MsgGameWon      = "🎉 @%s угадывает слово «%s» и побеждает!\n\n%s"
	MsgGameEnded    = "Игра окончена! Слово: «%s».\n\n%s"
	MsgGameStopped  = "Завершаю игру.\n\n%s"
	MsgGameError    = "Что-то пошло не так, игра остановлена 😔"
	MsgGameEndError = "Не удалось подвести итоги игры 😔"

	ScoresHeader = "Финальный счёт:"
)
