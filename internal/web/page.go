package web

// chatPageHTML is the whole client: a sidebar with the join form and a
// polling message list. The page re-checks /api/updates on the same
// interval the server polls the history file and refetches the message
// list whenever the version moved, which is how one visitor sees
// another visitor's messages.
const chatPageHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Multithread Chatbot with Groq</title>
<style>
  body { font-family: sans-serif; margin: 0; display: flex; }
  #sidebar { width: 280px; min-height: 100vh; background: #f7f7f7; padding: 16px; box-sizing: border-box; }
  #main { flex: 1; padding: 24px; max-width: 720px; }
  #messages .msg { display: flex; align-items: center; margin-bottom: 8px; }
  #messages .icon { font-size: 24px; margin-right: 8px; cursor: pointer; }
  #messages .bubble { padding: 8px; border-radius: 8px; }
  #messages .user .bubble { background: #f1f1f1; }
  #messages .assistant .bubble { background: #e1f5fe; }
  #notice { color: #31708f; background: #d9edf7; padding: 8px; border-radius: 8px; margin-top: 12px; }
  #error { color: #a94442; background: #f2dede; padding: 8px; border-radius: 8px; margin: 8px 0; display: none; }
  input, textarea { width: 100%; box-sizing: border-box; margin-bottom: 8px; padding: 6px; }
  button { background: #126ff3; color: #fff; border: 1px solid #126ff3; border-radius: 8px; padding: 8px 16px; }
  #promo { border-radius: 8px; padding: 8px; background: #fff; text-align: center; margin-top: 24px; font-size: 13px; }
  #chatform { display: none; margin-top: 16px; }
</style>
</head>
<body>
<div id="sidebar">
  <h3>About App</h3>
  <p>This is a multi-user chatroom where one participant is an AI chatbot.
  The bot only answers when a message starts with a trigger word, and it
  folds the live BTC price and your interests into its reply.</p>
  {{if .RequireKey}}<input id="apikey" type="password" placeholder="Groq API Key">{{end}}
  <input id="username" type="text" placeholder="Enter your username:">
  <textarea id="interests" rows="3" placeholder="Enter your interests:"></textarea>
  <button onclick="join()">Join</button>
  <div id="notice">Please enter a username and interests to continue.</div>
  <div id="promo">
    <b>We're available for new projects!</b><br>
    <button>Schedule a call</button>
  </div>
  <p style="font-size:12px;color:#888">&copy; 2024 multichat</p>
</div>
<div id="main">
  <h2>Multithread Chatbot with Groq</h2>
  <p>This is a multi-user chatroom where one participant is an AI chatbot.</p>
  <div id="messages"></div>
  <div id="error"></div>
  <form id="chatform" onsubmit="send(); return false;">
    <input id="prompt" type="text" placeholder="What's on your mind?" autocomplete="off">
  </form>
</div>
<script>
var token = "";
var version = -1;

function esc(el, text) { el.textContent = text; }

function render(messages) {
  var box = document.getElementById("messages");
  box.innerHTML = "";
  messages.forEach(function (m) {
    var row = document.createElement("div");
    row.className = "msg " + (m.role === "assistant" ? "assistant" : "user");
    var icon = document.createElement("span");
    icon.className = "icon";
    icon.title = m.sender_name || "Assistant";
    icon.textContent = m.icon || "👤";
    var bubble = document.createElement("div");
    bubble.className = "bubble";
    esc(bubble, m.content);
    row.appendChild(icon);
    row.appendChild(bubble);
    box.appendChild(row);
  });
}

function showError(text) {
  var el = document.getElementById("error");
  el.style.display = text ? "block" : "none";
  esc(el, text || "");
}

function refresh() {
  fetch("/api/messages").then(function (r) { return r.json(); }).then(function (body) {
    version = body.version;
    render(body.messages || []);
  });
}

function join() {
  var body = {
    username: document.getElementById("username").value,
    interests: document.getElementById("interests").value
  };
  var keyField = document.getElementById("apikey");
  if (keyField) { body.api_key = keyField.value; }
  fetch("/api/join", {
    method: "POST",
    headers: { "Content-Type": "application/json" },
    body: JSON.stringify(body)
  }).then(function (r) { return r.json().then(function (b) { return { ok: r.ok, body: b }; }); })
    .then(function (res) {
      if (!res.ok) { esc(document.getElementById("notice"), res.body.error); return; }
      token = res.body.token;
      document.getElementById("notice").style.display = "none";
      document.getElementById("chatform").style.display = "block";
      refresh();
    });
}

function send() {
  var input = document.getElementById("prompt");
  var content = input.value;
  if (!content || !token) { return; }
  input.value = "";
  showError("");
  fetch("/api/messages", {
    method: "POST",
    headers: { "Content-Type": "application/json" },
    body: JSON.stringify({ token: token, content: content })
  }).then(function (r) { return r.json().then(function (b) { return { ok: r.ok, body: b }; }); })
    .then(function (res) {
      if (!res.ok) { showError(res.body.error); }
      refresh();
    });
}

setInterval(function () {
  if (!token) { return; }
  fetch("/api/updates").then(function (r) { return r.json(); }).then(function (body) {
    if (body.version !== version) { refresh(); }
  });
}, {{.PollMs}});
</script>
</body>
</html>
`
