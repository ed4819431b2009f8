package stage

import "github.com/talentlinkco/recruitbot/internal/lang"

// promptSet is the script for one language. Missing languages fall back
// to English rather than failing a turn.
type promptSet struct {
	greeting      string
	askName       string
	askCountry    string
	askRole       string
	askCandidates string
	reminder      string
	demo          string
	askSpecifics  string
}

var prompts = map[lang.Lang]promptSet{
	lang.English: {
		greeting:      "Hello! I'm the TalentLink assistant — we connect employers with vetted workers across Europe.",
		askName:       "What's your name, so I know how to address you?",
		askCountry:    "Which country are you hiring for?",
		askRole:       "What role or trade are you looking to fill?",
		askCandidates: "How many workers do you plan to bring on?",
		reminder:      "To move forward I still need the details I asked about earlier — could you fill those in?",
		demo:          "Here's how we work: you describe the role, we shortlist vetted candidates within days, and you only pay once a worker starts. Most placements close within two weeks.",
		askSpecifics:  "Could you share the specifics — the work site, a sample contract or rate, and your timeline?",
	},
	lang.Russian: {
		greeting:      "Здравствуйте! Я ассистент TalentLink — мы подбираем проверенных работников для работодателей по всей Европе.",
		askName:       "Как я могу к вам обращаться?",
		askCountry:    "Для какой страны вы подбираете персонал?",
		askRole:       "Какая специальность или позиция вас интересует?",
		askCandidates: "Сколько работников вы планируете привлечь?",
		reminder:      "Чтобы двигаться дальше, мне всё ещё нужны детали, о которых я спрашивал ранее — уточните их, пожалуйста.",
		demo:          "Как мы работаем: вы описываете позицию, мы за несколько дней подбираем проверенных кандидатов, оплата — только после выхода работника. Большинство заявок закрываем за две недели.",
		askSpecifics:  "Поделитесь, пожалуйста, деталями — объект, пример договора или ставка, сроки?",
	},
	lang.Ukrainian: {
		greeting:      "Вітаю! Я асистент TalentLink — ми добираємо перевірених працівників для роботодавців по всій Європі.",
		askName:       "Як я можу до вас звертатися?",
		askCountry:    "Для якої країни ви шукаєте персонал?",
		askRole:       "Яка спеціальність або позиція вас цікавить?",
		askCandidates: "Скільки працівників ви плануєте залучити?",
		reminder:      "Щоб рухатися далі, мені все ще потрібні деталі, про які я питав раніше — уточніть їх, будь ласка.",
		demo:          "Як ми працюємо: ви описуєте позицію, ми за кілька днів добираємо перевірених кандидатів, оплата — лише після виходу працівника. Більшість заявок закриваємо за два тижні.",
		askSpecifics:  "Поділіться, будь ласка, деталями — об'єкт, приклад договору чи ставка, терміни?",
	},
	lang.Polish: {
		greeting:      "Dzień dobry! Jestem asystentem TalentLink — łączymy pracodawców ze sprawdzonymi pracownikami w całej Europie.",
		askName:       "Jak mogę się do Pana/Pani zwracać?",
		askCountry:    "Dla jakiego kraju rekrutujecie?",
		askRole:       "Jakiego stanowiska lub zawodu szukacie?",
		askCandidates: "Ilu pracowników planujecie zatrudnić?",
		reminder:      "Aby ruszyć dalej, wciąż potrzebuję szczegółów, o które pytałem wcześniej — proszę je uzupełnić.",
		demo:          "Tak pracujemy: opisujecie stanowisko, w kilka dni przedstawiamy sprawdzonych kandydatów, płacicie dopiero po rozpoczęciu pracy. Większość rekrutacji zamykamy w dwa tygodnie.",
		askSpecifics:  "Proszę podzielić się szczegółami — miejsce pracy, przykładowa umowa lub stawka, terminy?",
	},
	lang.Czech: {
		greeting:      "Dobrý den! Jsem asistent TalentLink — propojujeme zaměstnavatele s prověřenými pracovníky po celé Evropě.",
		askName:       "Jak vás mohu oslovovat?",
		askCountry:    "Pro kterou zemi nabíráte?",
		askRole:       "Jakou pozici nebo profesi hledáte?",
		askCandidates: "Kolik pracovníků plánujete přijmout?",
		reminder:      "Abychom se posunuli dál, stále potřebuji podrobnosti, na které jsem se ptal dříve — doplňte je prosím.",
		demo:          "Takto pracujeme: popíšete pozici, během několika dní představíme prověřené kandidáty a platíte až po nástupu pracovníka. Většinu náborů uzavíráme do dvou týdnů.",
		askSpecifics:  "Podělte se prosím o podrobnosti — pracoviště, vzorová smlouva nebo sazba, termíny?",
	},
}

func promptsFor(l lang.Lang) promptSet {
	if p, ok := prompts[l]; ok {
		return p
	}
	return prompts[lang.English]
}
